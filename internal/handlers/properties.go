package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/models"
	"github.com/BradenHooton/meular/internal/services"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PropertyServiceInterface defines the property catalogue operations
type PropertyServiceInterface interface {
	Create(ctx context.Context, ownerPublicID string, input services.PropertyInput) (*models.Property, error)
	Get(ctx context.Context, publicID string) (*models.Property, error)
	List(ctx context.Context, limit, offset int) ([]*models.Property, error)
	ListMine(ctx context.Context, ownerPublicID string) ([]*models.Property, error)
	Update(ctx context.Context, ownerPublicID, publicID string, input services.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, ownerPublicID, publicID string) error
}

// PropertyHandler handles property HTTP requests
type PropertyHandler struct {
	service PropertyServiceInterface
}

func NewPropertyHandler(service PropertyServiceInterface) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// PropertyRequest represents the request body for creating or replacing a property
type PropertyRequest struct {
	Title      string  `json:"title" validate:"required,min=8,max=128"`
	Types      []int64 `json:"types" validate:"required,min=1,max=20,dive,gt=0"`
	Categories []int64 `json:"categories" validate:"required,min=1,max=20,dive,gt=0"`
}

// Create adds a property owned by the caller
// @Security BearerAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), claims.Subject, services.PropertyInput{
		Title:       req.Title,
		TypeIDs:     req.Types,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

// List returns a page of properties, newest first
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Router /properties [get]
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(r)
	if !ok {
		pkghttp.WriteBadRequest(w, "limit and offset must be non-negative integers")
		return
	}

	list, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// ListMine returns the caller's properties
// @Security BearerAuth
// @Router /properties/mine [get]
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	list, err := h.service.ListMine(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, list)
}

// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !publicIDPattern.MatchString(id) {
		pkghttp.WriteNotFound(w, "property not found")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, p)
}

// Update replaces the title, types and categories of one of the caller's properties
// @Security BearerAuth
// @Router /properties/{id} [patch]
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if !publicIDPattern.MatchString(id) {
		pkghttp.WriteNotFound(w, "property not found")
		return
	}

	var req PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), claims.Subject, id, services.PropertyInput{
		Title:       req.Title,
		TypeIDs:     req.Types,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes one of the caller's properties
// @Security BearerAuth
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if !publicIDPattern.MatchString(id) {
		pkghttp.WriteNotFound(w, "property not found")
		return
	}

	if err := h.service.Delete(r.Context(), claims.Subject, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePagination reads limit and offset, clamping limit to maxPageSize
func parsePagination(r *http.Request) (int, int, bool) {
	limit, offset := defaultPageSize, 0

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		limit = min(max(n, 1), maxPageSize)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = n
	}

	return limit, offset, true
}
