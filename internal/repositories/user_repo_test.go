package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/meular/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func sampleUser() *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:                       "6f1c1e84-3f0b-4c43-9a61-0b0c1a1d2e3f",
		PublicID:                 "abc123def456",
		Email:                    "alice@example.com",
		Name:                     "Alice",
		PasswordHash:             "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		RefreshTokenHash:         nil,
		EmailValidated:           false,
		EmailValidationTokenHash: strPtr("$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$dG9rZW4"),
		EmailValidationSentAt:    &now,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

func userRow(u *models.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "public_id", "email", "name", "username", "password_hash", "refresh_token_hash", "email_validated",
		"email_validation_token_hash", "email_validation_sent_at", "created_at", "updated_at",
	}).AddRow(
		u.ID, u.PublicID, u.Email, u.Name, u.Username, u.PasswordHash, u.RefreshTokenHash, u.EmailValidated,
		u.EmailValidationTokenHash, u.EmailValidationSentAt, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email =").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.PublicID, got.PublicID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.False(t, got.HasSession())
	require.NotNil(t, got.EmailValidationTokenHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByPublicID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE public_id =").
		WithArgs("missing00000").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByPublicID(context.Background(), "missing00000")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), u.Email, u.Name, u.PasswordHash, false,
			u.EmailValidationTokenHash, u.EmailValidationSentAt, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(userRow(u))

	input := &models.User{
		Email:                    u.Email,
		Name:                     u.Name,
		PasswordHash:             u.PasswordHash,
		EmailValidationTokenHash: u.EmailValidationTokenHash,
		EmailValidationSentAt:    u.EmailValidationSentAt,
	}
	got, err := repo.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	assert.Len(t, input.PublicID, 12)
	assert.Regexp(t, "^[0-9a-z]{12}$", input.PublicID)
	assert.NotEmpty(t, input.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), "alice@example.com", "Alice", "h", false,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetRefreshTokenHash(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	hash := strPtr("refresh-hash")
	mock.ExpectExec("UPDATE users SET refresh_token_hash").
		WithArgs(hash, pgxmock.AnyArg(), "abc123def456").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetRefreshTokenHash(context.Background(), "abc123def456", hash))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetRefreshTokenHash_UnknownUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET refresh_token_hash").
		WithArgs((*string)(nil), pgxmock.AnyArg(), "missing00000").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetRefreshTokenHash(context.Background(), "missing00000", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetEmailValidationToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	sentAt := time.Now()

	mock.ExpectExec("UPDATE users SET email_validation_token_hash").
		WithArgs("token-hash", sentAt, pgxmock.AnyArg(), "abc123def456").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetEmailValidationToken(context.Background(), "abc123def456", "token-hash", sentAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MarkEmailValidated(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET email_validated = TRUE, email_validation_token_hash = NULL").
		WithArgs(pgxmock.AnyArg(), "abc123def456").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkEmailValidated(context.Background(), "abc123def456"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExecError_PassesThrough(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	connErr := errors.New("connection reset by peer")

	mock.ExpectExec("UPDATE users").
		WithArgs(pgxmock.AnyArg(), "abc123def456").
		WillReturnError(connErr)

	err := repo.MarkEmailValidated(context.Background(), "abc123def456")
	assert.ErrorIs(t, err, connErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RotateRefreshTokenHash(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET refresh_token_hash = \\$1, updated_at = \\$2\\s+WHERE public_id = \\$3 AND refresh_token_hash = \\$4").
		WithArgs("next-hash", pgxmock.AnyArg(), "abc123def456", "current-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.RotateRefreshTokenHash(context.Background(), "abc123def456", "current-hash", "next-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RotateRefreshTokenHash_AlreadyRotated(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET refresh_token_hash").
		WithArgs("next-hash", pgxmock.AnyArg(), "abc123def456", "stale-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.RotateRefreshTokenHash(context.Background(), "abc123def456", "stale-hash", "next-hash")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()
	u.Name = "Alice Doe"
	u.Username = strPtr("alice")

	mock.ExpectQuery("UPDATE users SET name = COALESCE\\(\\$1, name\\), username = COALESCE\\(\\$2, username\\)").
		WithArgs(&u.Name, u.Username, pgxmock.AnyArg(), u.PublicID).
		WillReturnRows(userRow(u))

	got, err := repo.Update(context.Background(), u.PublicID, models.UserUpdate{Name: &u.Name, Username: u.Username})
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_Username(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()
	u.Username = strPtr("alice")

	mock.ExpectQuery("UPDATE users SET name = COALESCE").
		WithArgs((*string)(nil), u.Username, pgxmock.AnyArg(), u.PublicID).
		WillReturnRows(userRow(u))

	got, err := repo.Update(context.Background(), u.PublicID, models.UserUpdate{Username: u.Username})
	require.NoError(t, err)
	require.NotNil(t, got.Username)
	assert.Equal(t, "alice", *got.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_UsernameTaken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	username := strPtr("bob")

	mock.ExpectQuery("UPDATE users SET name = COALESCE").
		WithArgs((*string)(nil), username, pgxmock.AnyArg(), "abc123def456").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})

	_, err := repo.Update(context.Background(), "abc123def456", models.UserUpdate{Username: username})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users WHERE public_id =").
		WithArgs("abc123def456").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "abc123def456"))

	mock.ExpectExec("DELETE FROM users WHERE public_id =").
		WithArgs("missing00000").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing00000"), models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
