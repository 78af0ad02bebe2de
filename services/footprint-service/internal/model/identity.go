package model

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Identity represents a user's identity in the authentication system.
// It maps a user to the provider they sign in with: local email and password,
// or an external provider such as Google.
type Identity struct {
	ID          string    `bson:"_id"           db:"id"`
	UserID      string    `bson:"user_id"       db:"user_id"`
	ProviderID  string    `bson:"provider_id"   db:"provider_id"`
	Provider    string    `bson:"provider"      db:"provider"`
	Email       string    `bson:"email"         db:"email"`
	LastLoginAt time.Time `bson:"last_login_at" db:"last_login_at"`
	CreatedAt   time.Time `bson:"created_at"    db:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"    db:"updated_at"`
}
