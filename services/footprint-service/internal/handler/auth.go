package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/payload"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   Validator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator Validator) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, validator: validator}
}

// RegisterPublicRoutes mounts the routes that need no credential.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/google", h.LoginWithGoogle)
}

// RegisterProtectedRoutes mounts the routes that act on the signed-in user.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
	r.Put("/profile", h.UpdateProfile)
	r.Put("/change-password", h.ChangePassword)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req payload.SignupRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.authUsecase.Signup(r.Context(), usecase.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewAuthResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewAuthResponse(result))
}

func (h *AuthHandler) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleLoginRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.authUsecase.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewAuthResponse(result))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.UserEnvelope{User: payload.NewUserResponse(user)})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req payload.UpdateProfileRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authUsecase.UpdateProfile(r.Context(), userID, usecase.UpdateProfileParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.UserEnvelope{User: payload.NewUserResponse(user)})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req payload.ChangePasswordRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authUsecase.ChangePassword(r.Context(), userID, usecase.ChangePasswordParams{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.MessageResponse{Message: "Password changed successfully"})
}
