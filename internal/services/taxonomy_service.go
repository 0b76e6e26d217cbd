package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/meular/internal/models"
	"github.com/gosimple/slug"
)

// TaxonomyRepository persists property types or property categories
type TaxonomyRepository interface {
	Create(ctx context.Context, name, slug string) (*models.Taxonomy, error)
	GetByID(ctx context.Context, id int64) (*models.Taxonomy, error)
	List(ctx context.Context) ([]*models.Taxonomy, error)
	Update(ctx context.Context, id int64, name, slug string) (*models.Taxonomy, error)
	Delete(ctx context.Context, id int64) error
}

// TaxonomyService manages one taxonomy: types or categories. Slugs are
// derived from the name with Portuguese transliteration.
type TaxonomyService struct {
	repo   TaxonomyRepository
	kind   string
	logger *slog.Logger
}

// NewTaxonomyService creates a service; kind ("property type", "property
// category") only shapes messages.
func NewTaxonomyService(repo TaxonomyRepository, kind string, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repo, kind: kind, logger: logger}
}

func (s *TaxonomyService) Create(ctx context.Context, name string) (*models.Taxonomy, error) {
	name, slugValue, err := s.normalize(name)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, name, slugValue)
	if err != nil {
		return nil, s.mapError("failed to create "+s.kind, err)
	}

	s.logger.Info(s.kind+" created", slog.Int64("id", t.ID), slog.String("slug", t.Slug))
	return t, nil
}

func (s *TaxonomyService) Get(ctx context.Context, id int64) (*models.Taxonomy, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("failed to get "+s.kind, err)
	}
	return t, nil
}

func (s *TaxonomyService) List(ctx context.Context) ([]*models.Taxonomy, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to list "+s.kind, err)
	}
	return items, nil
}

func (s *TaxonomyService) Update(ctx context.Context, id int64, name string) (*models.Taxonomy, error) {
	name, slugValue, err := s.normalize(name)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Update(ctx, id, name, slugValue)
	if err != nil {
		return nil, s.mapError("failed to update "+s.kind, err)
	}
	return t, nil
}

// Delete fails with BadRequest while properties still reference the entry
func (s *TaxonomyService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("failed to delete "+s.kind, err)
	}
	return nil
}

func (s *TaxonomyService) normalize(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	slugValue := slug.MakeLang(name, "pt")
	if slugValue == "" {
		return "", "", models.NewDomainError(models.ErrBadRequest, "name must contain letters or digits")
	}
	return name, slugValue, nil
}

func (s *TaxonomyService) mapError(msg string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.NewDomainError(models.ErrNotFound, s.kind+" not found")
	case errors.Is(err, models.ErrConflict):
		return models.NewDomainError(models.ErrBadRequest, s.kind+" already exists")
	case errors.Is(err, models.ErrBadRequest):
		return models.NewDomainError(models.ErrBadRequest, s.kind+" is in use")
	default:
		return storeFailure(s.logger, msg, err)
	}
}
