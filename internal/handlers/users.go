package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/models"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// UserHandler handles account HTTP requests: registration, email validation
// and password recovery
type UserHandler struct {
	service AuthServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service AuthServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,strongpassword"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// ValidateEmailRequest carries the secret from the validation link
type ValidateEmailRequest struct {
	ID    string `json:"id" validate:"required,publicid"`
	Token string `json:"token" validate:"required,max=128"`
}

// ResendValidationRequest represents the request body for resending the validation mail
type ResendValidationRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// ResetPasswordRequest carries the secret from the recovery link and the new password
type ResetPasswordRequest struct {
	ID       string `json:"id" validate:"required,recoveryid"`
	Token    string `json:"token" validate:"required,max=128"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// UpdateProfileRequest carries the profile fields to change; omitted fields stay as they are
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Username *string `json:"username" validate:"omitempty,username"`
}

// ForgotPasswordResponse is returned for every well-formed forgot-password request
type ForgotPasswordResponse struct {
	ID string `json:"id"`
}

// Register creates an account
// @Summary Register
// @Accept json
// @Param request body RegisterRequest true "Account"
// @Produce json
// @Success 201 {object} models.SafeUser
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 503 {object} pkghttp.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, user)
}

// ValidateEmail consumes the email validation secret
// @Router /users/validate-email [post]
func (h *UserHandler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req ValidateEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ValidateEmail(r.Context(), req.ID, req.Token); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResendValidation always answers 202 unless the request is malformed or the
// store is down
// @Router /users/resend-validation [post]
func (h *UserHandler) ResendValidation(w http.ResponseWriter, r *http.Request) {
	var req ResendValidationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ResendValidation(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ForgotPassword opens a password recovery request
// @Summary Forgot password
// @Param email path string true "Account email"
// @Produce json
// @Success 202 {object} ForgotPasswordResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 503 {object} pkghttp.ErrorResponse
// @Router /users/email/{email}/forgot-password [get]
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || validate.Var(email, "required,email,max=254") != nil {
		pkghttp.WriteBadRequest(w, "validation failed: email: must be a valid email address")
		return
	}

	id, err := h.service.ForgotPassword(r.Context(), email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			writeServiceError(w, err)
			return
		}
		// Unknown addresses get a well-formed id that matches no request
		id = ulid.Make().String()
	}

	pkghttp.WriteJSON(w, http.StatusAccepted, ForgotPasswordResponse{ID: id})
}

// ResetPassword consumes a recovery request and sets a new password
// @Router /users/reset-password [post]
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.ID, req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateMe changes the signed-in user's name or username
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.Subject, models.UserUpdate{
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// DeleteMe removes the signed-in user's account
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.Subject); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}
