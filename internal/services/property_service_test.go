package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/meular/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerUUID = "7f1c4a52-2d1b-4c0e-9a57-3b1f0c6d8e21"

func newPropertyFixture() (*PropertyService, *MockPropertyRepository, *MockUserRepository) {
	props := &MockPropertyRepository{}
	users := &MockUserRepository{
		GetByPublicIDFunc: func(ctx context.Context, publicID string) (*models.User, error) {
			if publicID == "owner0000001" {
				return &models.User{ID: ownerUUID, PublicID: publicID}, nil
			}
			return nil, models.ErrNotFound
		},
	}
	return NewPropertyService(props, users, discardLogger()), props, users
}

func TestPropertyService_Create(t *testing.T) {
	svc, props, _ := newPropertyFixture()

	var stored *models.Property
	props.CreateFunc = func(ctx context.Context, p *models.Property) (*models.Property, error) {
		stored = p
		out := *p
		out.PublicID = "prop00000001"
		return &out, nil
	}

	created, err := svc.Create(context.Background(), "owner0000001", PropertyInput{
		Title:       "  Casa no Centro ",
		TypeIDs:     []int64{3, 1, 3},
		CategoryIDs: []int64{2, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "prop00000001", created.PublicID)

	require.NotNil(t, stored)
	assert.Equal(t, ownerUUID, stored.UserID)
	assert.Equal(t, "Casa no Centro", stored.Title)
	assert.Equal(t, []int64{1, 3}, stored.TypeIDs)
	assert.Equal(t, []int64{2}, stored.CategoryIDs)
}

func TestPropertyService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input PropertyInput
	}{
		{"no types", PropertyInput{Title: "x", CategoryIDs: []int64{1}}},
		{"no categories", PropertyInput{Title: "x", TypeIDs: []int64{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newPropertyFixture()
			_, err := svc.Create(context.Background(), "owner0000001", tt.input)
			assert.ErrorIs(t, err, models.ErrBadRequest)
		})
	}
}

func TestPropertyService_Create_UnknownTaxonomy(t *testing.T) {
	svc, props, _ := newPropertyFixture()
	props.CreateFunc = func(ctx context.Context, p *models.Property) (*models.Property, error) {
		return nil, models.ErrBadRequest
	}

	_, err := svc.Create(context.Background(), "owner0000001", PropertyInput{Title: "x", TypeIDs: []int64{99}, CategoryIDs: []int64{1}})
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Equal(t, "unknown property type or category", models.ErrorMessage(err, ""))
}

func TestPropertyService_Create_UnknownOwner(t *testing.T) {
	svc, _, _ := newPropertyFixture()

	_, err := svc.Create(context.Background(), "ghost0000001", PropertyInput{Title: "x", TypeIDs: []int64{1}, CategoryIDs: []int64{1}})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestPropertyService_Get(t *testing.T) {
	svc, props, _ := newPropertyFixture()

	_, err := svc.Get(context.Background(), "missing00001")
	assert.ErrorIs(t, err, models.ErrNotFound)

	props.GetByPublicIDFunc = func(ctx context.Context, publicID string) (*models.Property, error) {
		return nil, errors.New("connection refused")
	}
	_, err = svc.Get(context.Background(), "prop00000001")
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

func TestPropertyService_ListMine(t *testing.T) {
	svc, props, _ := newPropertyFixture()

	var gotUserID string
	props.ListByUserFunc = func(ctx context.Context, userID string) ([]*models.Property, error) {
		gotUserID = userID
		return []*models.Property{{PublicID: "prop00000001"}}, nil
	}

	list, err := svc.ListMine(context.Background(), "owner0000001")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, ownerUUID, gotUserID)
}

func TestPropertyService_Delete(t *testing.T) {
	svc, props, _ := newPropertyFixture()

	props.DeleteFunc = func(ctx context.Context, publicID, userID string) error {
		if publicID == "prop00000001" && userID == ownerUUID {
			return nil
		}
		return models.ErrNotFound
	}

	assert.NoError(t, svc.Delete(context.Background(), "owner0000001", "prop00000001"))

	err := svc.Delete(context.Background(), "owner0000001", "prop00000002")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPropertyService_Update(t *testing.T) {
	svc, props, _ := newPropertyFixture()

	var stored *models.Property
	props.UpdateFunc = func(ctx context.Context, p *models.Property) (*models.Property, error) {
		if p.PublicID != "prop00000001" || p.UserID != ownerUUID {
			return nil, models.ErrNotFound
		}
		stored = p
		out := *p
		return &out, nil
	}

	updated, err := svc.Update(context.Background(), "owner0000001", "prop00000001", PropertyInput{
		Title:       " Casa Reformada ",
		TypeIDs:     []int64{2, 2},
		CategoryIDs: []int64{4, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Casa Reformada", updated.Title)

	require.NotNil(t, stored)
	assert.Equal(t, []int64{2}, stored.TypeIDs)
	assert.Equal(t, []int64{1, 4}, stored.CategoryIDs)

	_, err = svc.Update(context.Background(), "owner0000001", "prop00000002", PropertyInput{Title: "x", TypeIDs: []int64{1}, CategoryIDs: []int64{1}})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, "property not found", models.ErrorMessage(err, ""))
}

func TestPropertyService_Update_Errors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		input   PropertyInput
		kind    error
		message string
	}{
		{"no types", nil, PropertyInput{Title: "x", CategoryIDs: []int64{1}}, models.ErrBadRequest, "at least one type and one category are required"},
		{"unknown taxonomy", models.ErrBadRequest, PropertyInput{Title: "x", TypeIDs: []int64{99}, CategoryIDs: []int64{1}}, models.ErrBadRequest, "unknown property type or category"},
		{"store down", errors.New("connection reset"), PropertyInput{Title: "x", TypeIDs: []int64{1}, CategoryIDs: []int64{1}}, models.ErrUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, props, _ := newPropertyFixture()
			props.UpdateFunc = func(ctx context.Context, p *models.Property) (*models.Property, error) {
				return nil, tt.repoErr
			}

			_, err := svc.Update(context.Background(), "owner0000001", "prop00000001", tt.input)
			assert.ErrorIs(t, err, tt.kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, models.ErrorMessage(err, ""))
			}
		})
	}
}
