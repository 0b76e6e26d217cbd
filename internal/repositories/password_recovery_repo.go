package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/meular/internal/database"
	"github.com/BradenHooton/meular/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
)

type PasswordRecoveryRepository struct {
	pool database.Pool
}

func NewPasswordRecoveryRepository(pool database.Pool) *PasswordRecoveryRepository {
	return &PasswordRecoveryRepository{pool: pool}
}

// Create stores a new recovery request under a fresh ULID
func (r *PasswordRecoveryRepository) Create(ctx context.Context, req *models.PasswordRecoveryRequest) (*models.PasswordRecoveryRequest, error) {
	req.ID = ulid.Make().String()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO password_recovery_requests (id, user_id, token_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.pool.Exec(ctx, query, req.ID, req.UserID, req.TokenHash, req.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return req, nil
}

func (r *PasswordRecoveryRepository) GetByID(ctx context.Context, id string) (*models.PasswordRecoveryRequest, error) {
	query := `SELECT id, user_id, token_hash, created_at FROM password_recovery_requests WHERE id = $1`

	var req models.PasswordRecoveryRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(&req.ID, &req.UserID, &req.TokenHash, &req.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &req, nil
}

// ResetPassword consumes the recovery request, replaces the user's password,
// ends their session and deletes every other pending request of that user,
// all in one transaction. A request already consumed by a concurrent reset
// is reported as models.ErrNotFound and nothing changes.
func (r *PasswordRecoveryRepository) ResetPassword(ctx context.Context, recoveryID, userID, passwordHash string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM password_recovery_requests WHERE id = $1 AND user_id = $2`, recoveryID, userID,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		result, err = tx.Exec(ctx,
			`UPDATE users SET password_hash = $1, refresh_token_hash = NULL, updated_at = $2 WHERE id = $3`,
			passwordHash, time.Now(), userID,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM password_recovery_requests WHERE user_id = $1`, userID); err != nil {
			return database.MapPostgresError(err)
		}
		return nil
	})
}

// DeleteOlderThan purges requests issued before cutoff and returns how many were removed
func (r *PasswordRecoveryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM password_recovery_requests WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
