package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/BradenHooton/meular/internal/models"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Property, error)
	List(ctx context.Context, limit, offset int) ([]*models.Property, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Property, error)
	Update(ctx context.Context, p *models.Property) (*models.Property, error)
	Delete(ctx context.Context, publicID, userID string) error
}

// PropertyInput is the caller-supplied part of a property
type PropertyInput struct {
	Title       string
	TypeIDs     []int64
	CategoryIDs []int64
}

// PropertyService manages listings owned by users
type PropertyService struct {
	properties PropertyRepository
	users      UserRepository
	logger     *slog.Logger
}

func NewPropertyService(properties PropertyRepository, users UserRepository, logger *slog.Logger) *PropertyService {
	return &PropertyService{properties: properties, users: users, logger: logger}
}

// Create stores a property for the owner. The property and all its type and
// category links are written together or not at all.
func (s *PropertyService) Create(ctx context.Context, ownerPublicID string, input PropertyInput) (*models.Property, error) {
	typeIDs := dedupeIDs(input.TypeIDs)
	categoryIDs := dedupeIDs(input.CategoryIDs)
	if len(typeIDs) == 0 || len(categoryIDs) == 0 {
		return nil, models.NewDomainError(models.ErrBadRequest, "at least one type and one category are required")
	}

	owner, err := s.owner(ctx, ownerPublicID)
	if err != nil {
		return nil, err
	}

	created, err := s.properties.Create(ctx, &models.Property{
		UserID:      owner.ID,
		Title:       strings.TrimSpace(input.Title),
		TypeIDs:     typeIDs,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.NewDomainError(models.ErrBadRequest, "unknown property type or category")
		}
		return nil, storeFailure(s.logger, "failed to create property", err, slog.String("user_id", ownerPublicID))
	}

	s.logger.Info("property created", slog.String("user_id", ownerPublicID), slog.String("property_id", created.PublicID))
	return created, nil
}

func (s *PropertyService) Get(ctx context.Context, publicID string) (*models.Property, error) {
	p, err := s.properties.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewDomainError(models.ErrNotFound, "property not found")
		}
		return nil, storeFailure(s.logger, "failed to get property", err, slog.String("property_id", publicID))
	}
	return p, nil
}

func (s *PropertyService) List(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	list, err := s.properties.List(ctx, limit, offset)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to list properties", err)
	}
	return list, nil
}

// ListMine lists the properties owned by the signed-in user
func (s *PropertyService) ListMine(ctx context.Context, ownerPublicID string) ([]*models.Property, error) {
	owner, err := s.owner(ctx, ownerPublicID)
	if err != nil {
		return nil, err
	}

	list, err := s.properties.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to list user properties", err, slog.String("user_id", ownerPublicID))
	}
	return list, nil
}

// Update replaces the title, types and categories of a property. Only its
// owner may do so; the title and every link change together or not at all.
func (s *PropertyService) Update(ctx context.Context, ownerPublicID, publicID string, input PropertyInput) (*models.Property, error) {
	typeIDs := dedupeIDs(input.TypeIDs)
	categoryIDs := dedupeIDs(input.CategoryIDs)
	if len(typeIDs) == 0 || len(categoryIDs) == 0 {
		return nil, models.NewDomainError(models.ErrBadRequest, "at least one type and one category are required")
	}

	owner, err := s.owner(ctx, ownerPublicID)
	if err != nil {
		return nil, err
	}

	updated, err := s.properties.Update(ctx, &models.Property{
		PublicID:    publicID,
		UserID:      owner.ID,
		Title:       strings.TrimSpace(input.Title),
		TypeIDs:     typeIDs,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.NewDomainError(models.ErrNotFound, "property not found")
		case errors.Is(err, models.ErrBadRequest):
			return nil, models.NewDomainError(models.ErrBadRequest, "unknown property type or category")
		}
		return nil, storeFailure(s.logger, "failed to update property", err, slog.String("property_id", publicID))
	}

	s.logger.Info("property updated", slog.String("user_id", ownerPublicID), slog.String("property_id", publicID))
	return updated, nil
}

// Delete removes a property; only its owner may do so
func (s *PropertyService) Delete(ctx context.Context, ownerPublicID, publicID string) error {
	owner, err := s.owner(ctx, ownerPublicID)
	if err != nil {
		return err
	}

	if err := s.properties.Delete(ctx, publicID, owner.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewDomainError(models.ErrNotFound, "property not found")
		}
		return storeFailure(s.logger, "failed to delete property", err, slog.String("property_id", publicID))
	}

	s.logger.Info("property deleted", slog.String("user_id", ownerPublicID), slog.String("property_id", publicID))
	return nil
}

func (s *PropertyService) owner(ctx context.Context, publicID string) (*models.User, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewDomainError(models.ErrUnauthorized, msgInvalidSession)
		}
		return nil, storeFailure(s.logger, "failed to get property owner", err, slog.String("user_id", publicID))
	}
	return user, nil
}

func dedupeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
