package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/meular/internal/models"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// TaxonomyServiceInterface is served by both property types and property categories
type TaxonomyServiceInterface interface {
	Create(ctx context.Context, name string) (*models.Taxonomy, error)
	Get(ctx context.Context, id int64) (*models.Taxonomy, error)
	List(ctx context.Context) ([]*models.Taxonomy, error)
	Update(ctx context.Context, id int64, name string) (*models.Taxonomy, error)
	Delete(ctx context.Context, id int64) error
}

// TaxonomyHandler exposes one taxonomy over HTTP
type TaxonomyHandler struct {
	service TaxonomyServiceInterface
}

func NewTaxonomyHandler(service TaxonomyServiceInterface) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// TaxonomyRequest is the body of create and update
type TaxonomyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

func (h *TaxonomyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaxonomyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, t)
}

func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, items)
}

func (h *TaxonomyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taxonomyID(w, r)
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, t)
}

func (h *TaxonomyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taxonomyID(w, r)
	if !ok {
		return
	}

	var req TaxonomyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, t)
}

func (h *TaxonomyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taxonomyID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func taxonomyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		pkghttp.WriteBadRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
