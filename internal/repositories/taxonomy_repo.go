package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/meular/internal/database"
	"github.com/BradenHooton/meular/internal/models"
)

// TaxonomyTable names one of the two lookup tables that share the Taxonomy shape
type TaxonomyTable string

const (
	PropertyTypes      TaxonomyTable = "property_types"
	PropertyCategories TaxonomyTable = "property_categories"
)

// TaxonomyRepository serves property types and property categories
type TaxonomyRepository struct {
	pool  database.Pool
	table TaxonomyTable
}

func NewTaxonomyRepository(pool database.Pool, table TaxonomyTable) *TaxonomyRepository {
	if table != PropertyTypes && table != PropertyCategories {
		panic(fmt.Sprintf("repositories: unknown taxonomy table %q", table))
	}
	return &TaxonomyRepository{pool: pool, table: table}
}

func (r *TaxonomyRepository) Create(ctx context.Context, name, slug string) (*models.Taxonomy, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, slug) VALUES ($1, $2) RETURNING id, name, slug`, r.table)

	var t models.Taxonomy
	if err := r.pool.QueryRow(ctx, query, name, slug).Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &t, nil
}

func (r *TaxonomyRepository) GetByID(ctx context.Context, id int64) (*models.Taxonomy, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE id = $1`, r.table)

	var t models.Taxonomy
	if err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &t, nil
}

func (r *TaxonomyRepository) List(ctx context.Context) ([]*models.Taxonomy, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id, name, slug FROM %s ORDER BY name`, r.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]*models.Taxonomy, 0)
	for rows.Next() {
		var t models.Taxonomy
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		items = append(items, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func (r *TaxonomyRepository) Update(ctx context.Context, id int64, name, slug string) (*models.Taxonomy, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $1, slug = $2 WHERE id = $3 RETURNING id, name, slug`, r.table)

	var t models.Taxonomy
	if err := r.pool.QueryRow(ctx, query, name, slug, id).Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &t, nil
}

// Delete fails with models.ErrBadRequest while properties still reference the row
func (r *TaxonomyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
