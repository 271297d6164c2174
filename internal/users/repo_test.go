package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	"github.com/tourhub-io/tourhub-backend/pkg/db"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		photo TEXT NOT NULL DEFAULT 'unknown.png',
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		active INTEGER NOT NULL DEFAULT 1,
		failed_attempts INTEGER NOT NULL DEFAULT 0,
		blocked_until DATETIME,
		password_changed_at DATETIME,
		password_reset_token_hash TEXT,
		password_reset_expires_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error)
	require.NoError(t, conn.Exec(`DELETE FROM users`).Error)
	return conn
}

func seedUser(t *testing.T, repo *Repository, name, email string) uuid.UUID {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: "argon2id$stub",
	})
	require.NoError(t, err)
	return user.ID
}

func TestCreateDefaultsAndSlug(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Jane Doe",
		Email:        "Jane@Example.Com",
		PasswordHash: "argon2id$stub",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "jane-doe", user.Slug)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "unknown.png", user.Photo)
	assert.Equal(t, enums.UserRoleUser, user.Role)
	assert.True(t, user.Active)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	seedUser(t, repo, "Jane Doe", "jane@example.com")

	_, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Other Jane",
		Email:        "jane@example.com",
		PasswordHash: "argon2id$stub",
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestFindByEmailSkipsInactive(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	found, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	require.NoError(t, repo.Deactivate(context.Background(), id))

	_, err = repo.FindByEmail(context.Background(), "jane@example.com")
	require.Error(t, err)
	assert.True(t, db.IsNotFound(err))

	// the row survives for admin tooling
	raw, err := repo.FindByIDAnyState(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, raw.Active)
}

func TestSaveAuthStateRoundTrip(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	until := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	user.FailedAttempts = 10
	user.BlockedUntil = &until
	require.NoError(t, repo.SaveAuthState(context.Background(), user))

	reloaded, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.FailedAttempts)
	require.NotNil(t, reloaded.BlockedUntil)
	assert.WithinDuration(t, until, *reloaded.BlockedUntil, time.Second)
}

func TestSavePasswordClearsResetState(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	digest := "abc123digest"
	expires := time.Now().Add(10 * time.Minute).UTC()
	require.NoError(t, repo.SaveResetToken(context.Background(), id, &digest, &expires))

	user, err := repo.FindByResetTokenHash(context.Background(), digest)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	changedAt := time.Now().UTC()
	require.NoError(t, repo.SavePassword(context.Background(), id, "argon2id$rotated", changedAt))

	reloaded, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "argon2id$rotated", reloaded.PasswordHash)
	assert.Nil(t, reloaded.PasswordResetTokenHash)
	assert.Nil(t, reloaded.PasswordResetExpiresAt)
	assert.Equal(t, 0, reloaded.FailedAttempts)
	assert.Nil(t, reloaded.BlockedUntil)
	require.NotNil(t, reloaded.PasswordChangedAt)
}

func TestFindByResetTokenHashReturnsExpiredRow(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	digest := "expired-digest"
	expires := time.Now().Add(-time.Minute).UTC()
	require.NoError(t, repo.SaveResetToken(context.Background(), id, &digest, &expires))

	// the row still resolves; expiry judgment belongs to the caller so an
	// expired token can be answered distinctly from an unknown one
	user, err := repo.FindByResetTokenHash(context.Background(), digest)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	require.NotNil(t, user.PasswordResetExpiresAt)
	assert.True(t, user.PasswordResetExpiresAt.Before(time.Now().UTC()))
}

func TestUpdateProfileIgnoresNilFields(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	name := "Janet Doe"
	updated, err := repo.UpdateProfile(context.Background(), id, UpdateProfileDTO{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Janet Doe", updated.Name)
	assert.Equal(t, "janet-doe", updated.Slug)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestListHidesInactiveUsers(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	seedUser(t, repo, "Jane Doe", "jane@example.com")
	inactiveID := seedUser(t, repo, "John Gone", "john@example.com")
	require.NoError(t, repo.Deactivate(context.Background(), inactiveID))

	out, err := repo.List(context.Background(), apiquery.Directives{Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Jane Doe", out[0].Name)
	// timestamps survive the default projection
	assert.False(t, out[0].UpdatedAt.IsZero())
	assert.Empty(t, out[0].PasswordHash)
}

func TestHardDeleteRemovesRow(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	id := seedUser(t, repo, "Jane Doe", "jane@example.com")

	require.NoError(t, repo.HardDelete(context.Background(), id))
	_, err := repo.FindByIDAnyState(context.Background(), id)
	require.Error(t, err)
	assert.True(t, db.IsNotFound(err))
}
