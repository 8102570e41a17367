package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: CreateUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"},
			wantErr: false,
		},
		{
			name:    "missing email",
			request: CreateUserRequest{Username: "alice", Password: "secret1"},
			wantErr: true,
		},
		{
			name:    "bad email",
			request: CreateUserRequest{Username: "alice", Email: "not-an-email", Password: "secret1"},
			wantErr: true,
		},
		{
			name:    "short password",
			request: CreateUserRequest{Username: "alice", Email: "alice@example.com", Password: "abc"},
			wantErr: true,
		},
		{
			name:    "missing username",
			request: CreateUserRequest{Email: "alice@example.com", Password: "secret1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	valid := LoginRequest{Email: "alice@example.com", Password: "secret1"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "alice@example.com"}
	assert.Error(t, missing.Validate())
}

func TestAPIRequestValidate(t *testing.T) {
	assert.NoError(t, (&DemoMatchRequest{JobID: "j", CVID: "c"}).Validate())
	assert.Error(t, (&DemoMatchRequest{JobID: "j"}).Validate())

	assert.NoError(t, (&MatchUserCVRequest{JobID: "j", CVID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427"}).Validate())
	assert.Error(t, (&MatchUserCVRequest{JobID: "j", CVID: "not-a-uuid"}).Validate())

	assert.NoError(t, (&RecommendCoursesRequest{Skills: []string{"sql"}}).Validate())
	assert.Error(t, (&RecommendCoursesRequest{Skills: []string{}}).Validate())
	assert.Error(t, (&RecommendCoursesRequest{}).Validate())
}
