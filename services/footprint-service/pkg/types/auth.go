package types

import "github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"

// AuthResult is returned by every successful sign-in or sign-up.
type AuthResult struct {
	Token string
	User  *model.User
}
