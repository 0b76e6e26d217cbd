package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/meular/internal/database"
	"github.com/BradenHooton/meular/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, public_id, email, name, username, password_hash, refresh_token_hash, email_validated,
	email_validation_token_hash, email_validation_sent_at, created_at, updated_at`

type UserRepository struct {
	pool database.Pool
}

func NewUserRepository(pool database.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// rowScanner interface for scanning rows (supports both pgx.Row and pgx.Rows)
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.PublicID, &user.Email, &user.Name, &user.Username, &user.PasswordHash,
		&user.RefreshTokenHash, &user.EmailValidated,
		&user.EmailValidationTokenHash, &user.EmailValidationSentAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE public_id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, publicID))
}

// Create inserts the user, assigning its internal and public identifiers.
// A duplicate email surfaces as models.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}

	user.ID = uuid.New().String()
	user.PublicID = publicID

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, public_id, email, name, password_hash, email_validated,
			email_validation_token_hash, email_validation_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.PublicID, user.Email, user.Name, user.PasswordHash, user.EmailValidated,
		user.EmailValidationTokenHash, user.EmailValidationSentAt, user.CreatedAt, user.UpdatedAt,
	))
}

// SetRefreshTokenHash overwrites the stored refresh hash. A nil hash ends the session.
func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, publicID string, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $1, updated_at = $2 WHERE public_id = $3`
	return r.execOne(ctx, query, hash, time.Now(), publicID)
}

// RotateRefreshTokenHash replaces the refresh hash only while it still equals
// current. A concurrent rotation that got there first leaves zero rows
// matched, reported as models.ErrNotFound.
func (r *UserRepository) RotateRefreshTokenHash(ctx context.Context, publicID, current, next string) error {
	query := `
		UPDATE users SET refresh_token_hash = $1, updated_at = $2
		WHERE public_id = $3 AND refresh_token_hash = $4
	`
	return r.execOne(ctx, query, next, time.Now(), publicID, current)
}

// SetEmailValidationToken stores a pending validation hash and restarts its window
func (r *UserRepository) SetEmailValidationToken(ctx context.Context, publicID, hash string, sentAt time.Time) error {
	query := `
		UPDATE users SET email_validation_token_hash = $1, email_validation_sent_at = $2, updated_at = $3
		WHERE public_id = $4
	`
	return r.execOne(ctx, query, hash, sentAt, time.Now(), publicID)
}

// MarkEmailValidated flags the email as validated and discards the pending hash
func (r *UserRepository) MarkEmailValidated(ctx context.Context, publicID string) error {
	query := `
		UPDATE users SET email_validated = TRUE, email_validation_token_hash = NULL, updated_at = $1
		WHERE public_id = $2
	`
	return r.execOne(ctx, query, time.Now(), publicID)
}

// Update applies the non-nil fields of update and returns the new row.
// A taken username surfaces as models.ErrConflict.
func (r *UserRepository) Update(ctx context.Context, publicID string, update models.UserUpdate) (*models.User, error) {
	query := `
		UPDATE users SET name = COALESCE($1, name), username = COALESCE($2, username), updated_at = $3
		WHERE public_id = $4
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, update.Name, update.Username, time.Now(), publicID))
}

// Delete removes the user; recovery requests and properties cascade
func (r *UserRepository) Delete(ctx context.Context, publicID string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE public_id = $1`, publicID)
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
