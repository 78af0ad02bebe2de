package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/pkg/types"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/provider"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Signup(ctx context.Context, params SignupParams) (*types.AuthResult, error)
	Login(ctx context.Context, params LoginParams) (*types.AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*types.AuthResult, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error
}

// SignupParams defines the parameters for user registration.
type SignupParams struct {
	Email    string
	Password string
	Name     *string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// UpdateProfileParams defines the optional profile fields to change.
type UpdateProfileParams struct {
	Name  *string
	Email *string
}

// ChangePasswordParams defines the parameters for a password change.
type ChangePasswordParams struct {
	CurrentPassword string
	NewPassword     string
}

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

// GoogleTokenValidator validates Google ID tokens.
type GoogleTokenValidator interface {
	ValidateIDToken(ctx context.Context, idToken string) (*provider.GoogleIdentity, error)
}

type authUsecase struct {
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
	tokens       TokenIssuer
	google       GoogleTokenValidator
	notifier     *notifier
	logger       *zerolog.Logger
}

// NewAuthUsecase wires the auth use cases. google and sender may be nil, which
// disables Google sign-in and notification emails respectively.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	identityRepo repository.IdentityRepository,
	tokens TokenIssuer,
	google GoogleTokenValidator,
	sender EmailSender,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		identityRepo: identityRepo,
		tokens:       tokens,
		google:       google,
		notifier:     &notifier{sender: sender, logger: logger},
		logger:       logger,
	}
}

func (u *authUsecase) Signup(ctx context.Context, params SignupParams) (*types.AuthResult, error) {
	email := normalizeEmail(params.Email)

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        email,
		Name:         trimmed(params.Name),
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The user row is already committed, so a missing email identity must not
	// fail the signup. Password login reads the user directly.
	if _, err := u.identityRepo.CreateIdentity(ctx, &model.Identity{
		UserID:     user.ID,
		Provider:   model.ProviderEmail,
		ProviderID: user.ID,
		Email:      user.Email,
	}); err != nil {
		u.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to create email identity")
	}

	u.notifier.welcome(user)

	return u.authenticate(user)
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*types.AuthResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	u.touchLastLogin(ctx, user.ID, model.ProviderEmail)

	return u.authenticate(user)
}

func (u *authUsecase) LoginWithGoogle(ctx context.Context, idToken string) (*types.AuthResult, error) {
	if u.google == nil {
		return nil, ErrGoogleSignInDisabled
	}

	identity, err := u.google.ValidateIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	linked, err := u.identityRepo.GetIdentityByProvider(ctx, identity.Subject, model.ProviderGoogle)
	switch {
	case err == nil:
		user, err := u.userRepo.GetUser(ctx, linked.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get linked user: %w", err)
		}
		u.touchLastLogin(ctx, user.ID, model.ProviderGoogle)
		return u.authenticate(user)
	case !errors.Is(err, repository.ErrIdentityNotFound):
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	email := normalizeEmail(identity.Email)
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	created := false
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = u.userRepo.CreateUser(ctx, &model.User{Email: email})
		created = true
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve google user: %w", err)
	}

	if _, err := u.identityRepo.CreateIdentity(ctx, &model.Identity{
		UserID:     user.ID,
		Provider:   model.ProviderGoogle,
		ProviderID: identity.Subject,
		Email:      email,
	}); err != nil {
		return nil, fmt.Errorf("failed to link google identity: %w", err)
	}

	if created {
		u.notifier.welcome(user)
	}

	return u.authenticate(user)
}

func (u *authUsecase) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (u *authUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, error) {
	update := repository.UpdateUserParams{Name: trimmed(params.Name)}
	if params.Email != nil {
		email := normalizeEmail(*params.Email)
		update.Email = &email
	}

	if update.IsEmpty() {
		return u.GetUser(ctx, userID)
	}

	user, err := u.userRepo.UpdateUser(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserAlreadyExists):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error {
	user, err := u.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if ok, err := security.VerifyPassword(params.CurrentPassword, user.PasswordHash); err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	} else if !ok {
		return ErrIncorrectPassword
	}

	passwordHash, err := security.HashPassword(params.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	u.notifier.passwordChanged(user)

	return nil
}

func (u *authUsecase) authenticate(user *model.User) (*types.AuthResult, error) {
	token, err := u.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &types.AuthResult{Token: token, User: user}, nil
}

// touchLastLogin records the login time. Accounts created before identities
// existed have none, which is not an error.
func (u *authUsecase) touchLastLogin(ctx context.Context, userID, provider string) {
	err := u.identityRepo.UpdateLastLogin(ctx, userID, provider)
	if err != nil && !errors.Is(err, repository.ErrIdentityNotFound) {
		u.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to update last login")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
