package usecase

import "errors"

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailInUse           = errors.New("email already in use")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrGoogleSignInDisabled = errors.New("google sign-in is not enabled")
	ErrInvalidGoogleToken   = errors.New("invalid google id token")
	ErrActivityNotFound     = errors.New("activity not found")
	ErrInvalidQuery         = errors.New("invalid query")
)
