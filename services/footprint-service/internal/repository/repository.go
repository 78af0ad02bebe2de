// Package repository defines the record store used by the footprint service and
// its MongoDB implementation. The postgres subpackage provides a relational one.
package repository

import (
	"context"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
}

// IdentityRepository defines the interface for identity-related database operations.
type IdentityRepository interface {
	CreateIdentity(ctx context.Context, identity *model.Identity) (*model.Identity, error)
	GetIdentityByProvider(ctx context.Context, providerID string, provider string) (*model.Identity, error)
	UpdateLastLogin(ctx context.Context, userID string, provider string) error
}

// ActivityRepository defines the interface for activity-related database operations.
// Every method is scoped to the owning user; an activity owned by someone else
// behaves exactly like one that does not exist.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *model.Activity) (*model.Activity, error)
	GetActivity(ctx context.Context, userID, id string) (*model.Activity, error)
	ListActivities(ctx context.Context, params FilterActivitiesParams) ([]*model.Activity, int64, error)
	UpdateActivity(ctx context.Context, userID, id string, params UpdateActivityParams) (*model.Activity, error)
	DeleteActivity(ctx context.Context, userID, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users      UserRepository
	Identities IdentityRepository
	Activities ActivityRepository
	Close      func(ctx context.Context) error
}
