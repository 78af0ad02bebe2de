package repository

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrIdentityAlreadyExists = errors.New("identity already exists")
	ErrActivityNotFound      = errors.New("activity not found")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
)
