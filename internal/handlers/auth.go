package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/models"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// AuthServiceInterface defines the credential lifecycle used by the auth and
// user handlers
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, error)
	SignOut(ctx context.Context, publicID string) error
	Refresh(ctx context.Context, publicID, presented string) (*models.TokenPair, error)
	Register(ctx context.Context, email, password, name string) (*models.SafeUser, error)
	ValidateEmail(ctx context.Context, publicID, presented string) error
	ResendValidation(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, recoveryID, presented, newPassword string) error
	CurrentUser(ctx context.Context, publicID string) (*models.SafeUser, error)
	UpdateProfile(ctx context.Context, publicID string, update models.UserUpdate) (*models.SafeUser, error)
	DeleteAccount(ctx context.Context, publicID string) error
}

// AuthHandler handles session HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignInRequest represents the request body for sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignIn handles user sign-in
// @Summary Sign in
// @Accept json
// @Param request body SignInRequest true "Credentials"
// @Produce json
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 503 {object} pkghttp.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same to the client
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "invalid credentials")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pair)
}

// SignOut ends the caller's session
// @Summary Sign out
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/sign-out [get]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	if err := h.service.SignOut(r.Context(), claims.Subject); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh rotates the session using the refresh bearer token
// @Summary Refresh tokens
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/refresh [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	presented := auth.GetRefreshTokenFromContext(r)
	if claims == nil || presented == "" {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	pair, err := h.service.Refresh(r.Context(), claims.Subject, presented)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pair)
}
