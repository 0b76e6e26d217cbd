package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/meular/internal/database"
	"github.com/BradenHooton/meular/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const propertySelect = `
	SELECT p.id, p.public_id, p.user_id, p.title,
		COALESCE((SELECT array_agg(t.type_id ORDER BY t.type_id) FROM property_on_types t WHERE t.property_id = p.id), '{}'),
		COALESCE((SELECT array_agg(c.category_id ORDER BY c.category_id) FROM property_on_categories c WHERE c.property_id = p.id), '{}'),
		p.created_at, p.updated_at
	FROM properties p`

type PropertyRepository struct {
	pool database.Pool
}

func NewPropertyRepository(pool database.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func scanPropertyRow(scanner rowScanner) (*models.Property, error) {
	var p models.Property
	err := scanner.Scan(&p.ID, &p.PublicID, &p.UserID, &p.Title, &p.TypeIDs, &p.CategoryIDs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func scanPropertyRows(rows pgx.Rows) ([]*models.Property, error) {
	defer rows.Close()

	properties := make([]*models.Property, 0)
	for rows.Next() {
		p, err := scanPropertyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return properties, nil
}

// Create inserts the property and its type and category links in a single
// transaction. An unknown type or category id rolls everything back and
// surfaces as models.ErrBadRequest.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}

	p.ID = uuid.New().String()
	p.PublicID = publicID
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO properties (id, public_id, user_id, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.PublicID, p.UserID, p.Title, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		return insertPropertyLinks(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update rewrites the title and replaces the type and category links of a
// property owned by p.UserID, in one transaction. A property of another user
// is reported as models.ErrNotFound.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE properties SET title = $1, updated_at = $2 WHERE public_id = $3 AND user_id = $4
			RETURNING id, created_at, updated_at`,
			p.Title, time.Now(), p.PublicID, p.UserID,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return database.MapPostgresError(err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM property_on_types WHERE property_id = $1`, p.ID); err != nil {
			return database.MapPostgresError(err)
		}
		for _, typeID := range p.TypeIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO property_on_types (property_id, type_id) VALUES ($1, $2)`, p.ID, typeID,
			); err != nil {
				return database.MapPostgresError(err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM property_on_categories WHERE property_id = $1`, p.ID); err != nil {
			return database.MapPostgresError(err)
		}
		for _, categoryID := range p.CategoryIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO property_on_categories (property_id, category_id) VALUES ($1, $2)`, p.ID, categoryID,
			); err != nil {
				return database.MapPostgresError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *PropertyRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Property, error) {
	return scanPropertyRow(r.pool.QueryRow(ctx, propertySelect+` WHERE p.public_id = $1`, publicID))
}

func (r *PropertyRepository) List(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	rows, err := r.pool.Query(ctx, propertySelect+` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return scanPropertyRows(rows)
}

func (r *PropertyRepository) ListByUser(ctx context.Context, userID string) ([]*models.Property, error) {
	rows, err := r.pool.Query(ctx, propertySelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return scanPropertyRows(rows)
}

func insertPropertyLinks(ctx context.Context, tx pgx.Tx, p *models.Property) error {
	for _, typeID := range p.TypeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO property_on_types (property_id, type_id) VALUES ($1, $2)`, p.ID, typeID,
		); err != nil {
			return database.MapPostgresError(err)
		}
	}

	for _, categoryID := range p.CategoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO property_on_categories (property_id, category_id) VALUES ($1, $2)`, p.ID, categoryID,
		); err != nil {
			return database.MapPostgresError(err)
		}
	}

	return nil
}

// Delete removes a property owned by userID; link rows cascade
func (r *PropertyRepository) Delete(ctx context.Context, publicID, userID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE public_id = $1 AND user_id = $2`, publicID, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
