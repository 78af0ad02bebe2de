package model

import "time"

// User represents an account of the footprint tracker.
type User struct {
	ID           string    `bson:"_id"           db:"id"`
	Email        string    `bson:"email"         db:"email"`
	Name         *string   `bson:"name"          db:"name"`
	PasswordHash string    `bson:"password_hash" db:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"    db:"updated_at"`
}
