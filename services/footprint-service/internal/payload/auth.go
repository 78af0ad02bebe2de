package payload

import (
	"time"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/pkg/types"
)

type SignupRequest struct {
	Email    string  `json:"email"    validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Name     *string `json:"name"     validate:"omitempty,notblank,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,notblank,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=254"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=128"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func NewAuthResponse(result *types.AuthResult) AuthResponse {
	return AuthResponse{
		Token: result.Token,
		User:  NewUserResponse(result.User),
	}
}
