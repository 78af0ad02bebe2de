// Package handler exposes the footprint service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/payload"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/middleware"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/validation"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// Validator validates decoded request payloads.
type Validator interface {
	Struct(s any) error
}

// decodeJSON decodes the request body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v Validator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, payload.ErrInvalidNumber) || errors.Is(err, payload.ErrInvalidDate) {
			return fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return errInvalidBody
	}

	return v.Struct(dst)
}

// writeError translates err into a status code and an {"error": ...} body.
// Unexpected errors are logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, validation.ErrValidation),
		errors.Is(err, usecase.ErrInvalidQuery):
		utilities.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		utilities.WriteError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utilities.WriteError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, usecase.ErrEmailInUse):
		utilities.WriteError(w, http.StatusBadRequest, "Email already in use")
	case errors.Is(err, usecase.ErrIncorrectPassword):
		utilities.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, usecase.ErrInvalidGoogleToken):
		utilities.WriteError(w, http.StatusBadRequest, "Invalid Google token")
	case errors.Is(err, usecase.ErrGoogleSignInDisabled):
		utilities.WriteError(w, http.StatusNotFound, "Google sign-in is not enabled")
	case errors.Is(err, usecase.ErrUserNotFound):
		utilities.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrActivityNotFound):
		utilities.WriteError(w, http.StatusNotFound, "Activity not found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		utilities.WriteError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// requireUserID returns the authenticated user. Routes are mounted behind the
// JWT middleware, so a missing id is a wiring bug.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Access denied")
	}
	return userID, ok
}
