package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/pkg/types"
)

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSignupReturnsTokenAndUser(t *testing.T) {
	s := newTestServer(t)
	s.auth.result = &types.AuthResult{
		Token: "tok",
		User: &model.User{
			ID:           "u1",
			Email:        "ada@example.com",
			Name:         ptr("Ada"),
			PasswordHash: "hash",
			CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}

	rec := s.do(t, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"secret1","name":"Ada"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec.Body.Bytes())
	assert.Equal(t, "tok", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "Ada", user["name"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "hash")

	assert.Equal(t, "ada@example.com", s.auth.signupParams.Email)
	require.NotNil(t, s.auth.signupParams.Name)
	assert.Equal(t, "Ada", *s.auth.signupParams.Name)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad email", body: `{"email":"nope","password":"secret1"}`, want: "email must be a valid email address"},
		{name: "short password", body: `{"email":"a@example.com","password":"123"}`, want: "password must be at least 6 characters in length"},
		{name: "blank name", body: `{"email":"a@example.com","password":"secret1","name":"  "}`, want: "name must not be blank"},
		{name: "malformed json", body: `{"email":`, want: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/signup", tt.body, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec.Body.Bytes())["error"], tt.want)
		})
	}
}

func TestAuthErrorMapping(t *testing.T) {
	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{err: usecase.ErrUserAlreadyExists, wantStatus: http.StatusBadRequest, wantMessage: "User already exists"},
		{err: usecase.ErrInvalidCredentials, wantStatus: http.StatusBadRequest, wantMessage: "Invalid credentials"},
		{err: usecase.ErrGoogleSignInDisabled, wantStatus: http.StatusNotFound, wantMessage: "Google sign-in is not enabled"},
		{err: usecase.ErrInvalidGoogleToken, wantStatus: http.StatusBadRequest, wantMessage: "Invalid Google token"},
		{err: fmt.Errorf("create user: %w", errBoom), wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMessage, func(t *testing.T) {
			s := newTestServer(t)
			s.auth.err = tt.err

			rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"secret1"}`, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeBody(t, rec.Body.Bytes())["error"])
		})
	}
}

func TestGoogleLoginRequiresIDToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/google", `{}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec.Body.Bytes())["error"], "idToken")
}

func TestProtectedAuthRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", decodeBody(t, rec.Body.Bytes())["error"])

	rec = s.do(t, http.MethodPut, "/api/auth/profile", `{"name":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	s := newTestServer(t)
	s.auth.user = &model.User{ID: "u1", Email: "a@example.com"}

	rec := s.do(t, http.MethodGet, "/api/auth/me", "", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec.Body.Bytes())["user"].(map[string]any)
	assert.Equal(t, "a@example.com", user["email"])
	assert.Nil(t, user["name"])
}

func TestUpdateProfileEmailInUse(t *testing.T) {
	s := newTestServer(t)
	s.auth.err = usecase.ErrEmailInUse

	rec := s.do(t, http.MethodPut, "/api/auth/profile", `{"email":"taken@example.com"}`, "u1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already in use", decodeBody(t, rec.Body.Bytes())["error"])
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/auth/change-password", `{"currentPassword":"secret1","newPassword":"secret2"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password changed successfully", decodeBody(t, rec.Body.Bytes())["message"])

	s.auth.err = usecase.ErrIncorrectPassword
	rec = s.do(t, http.MethodPut, "/api/auth/change-password", `{"currentPassword":"wrong1","newPassword":"secret2"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password is incorrect", decodeBody(t, rec.Body.Bytes())["error"])
}
