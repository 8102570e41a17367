// Package server provides the HTTP REST API for the skill gap recommender.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/extract"
)

// ErrEmailAlreadyExists indicates email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrNotFound indicates a requested resource does not exist or is not owned
// by the caller.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var emptyDoc *extract.EmptyDocumentError
	switch {
	case errors.As(err, new(*ErrEmailAlreadyExists)):
		return http.StatusConflict
	case errors.As(err, new(*ErrInvalidCredentials)):
		return http.StatusUnauthorized
	case errors.As(err, new(*ErrUserNotFound)), errors.As(err, new(*ErrNotFound)):
		return http.StatusNotFound
	case errors.As(err, new(*ErrValidation)), errors.As(err, &emptyDoc):
		return http.StatusBadRequest
	case errors.Is(err, embedding.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
