package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/extract"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"resource not found", &ErrNotFound{Resource: "job", ID: "j1"}, http.StatusNotFound},
		{"validation", &ErrValidation{Message: "bad input"}, http.StatusBadRequest},
		{"empty document", &extract.EmptyDocumentError{Length: 3}, http.StatusBadRequest},
		{"embedding provider", fmt.Errorf("embed: %w", embedding.ErrProvider), http.StatusBadGateway},
		{"wrapped not found", fmt.Errorf("lookup: %w", &ErrNotFound{Resource: "cv", ID: "x"}), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ErrEmailAlreadyExists{Email: "a@b.c"}).Error(), "a@b.c")
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Contains(t, (&ErrNotFound{Resource: "course", ID: "c9"}).Error(), "course not found: c9")
	assert.Contains(t, (&ErrValidation{Message: "skills required"}).Error(), "skills required")
}
