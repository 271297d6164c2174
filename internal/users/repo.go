package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
)

// Schema is the query-builder contract for the users collection. Credential
// and lockout columns are never exposed to request directives.
var Schema = apiquery.Schema{
	Columns: map[string]bool{
		"name":       true,
		"email":      true,
		"role":       true,
		"photo":      true,
		"created_at": true,
	},
	AllColumns: []string{
		"name",
		"slug",
		"email",
		"photo",
		"password_hash",
		"role",
		"active",
		"failed_attempts",
		"blocked_until",
		"password_changed_at",
		"password_reset_token_hash",
		"password_reset_expires_at",
		"created_at",
		"updated_at",
	},
	AlwaysExclude: []string{
		"password_hash",
		"failed_attempts",
		"blocked_until",
		"password_changed_at",
		"password_reset_token_hash",
		"password_reset_expires_at",
	},
	DefaultFilter: &apiquery.Clause{Query: "active = ?", Args: []any{true}},
}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the active user matching the provided email.
// Deactivated accounts are invisible here, so a suspended user fails
// authentication the same way an unknown one does.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an active user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("active = ?", true).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDAnyState loads a user regardless of active flag. Admin tooling only.
func (r *Repository) FindByIDAnyState(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash retrieves the active user owning a reset token.
// Expiry is deliberately not filtered here so the caller can tell an expired
// token apart from one that was never issued.
func (r *Repository) FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("password_reset_token_hash = ? AND active = ?", digest, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List executes a directive-driven query against the users collection.
func (r *Repository) List(ctx context.Context, d apiquery.Directives) ([]models.User, error) {
	var out []models.User
	q := apiquery.New(r.db.WithContext(ctx).Model(&models.User{}), Schema, d).Apply().Query()
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile applies the self-service profile fields and returns the
// refreshed model.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (*models.User, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
		updates["slug"] = slug.Make(*dto.Name)
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.Photo != nil {
		updates["photo"] = *dto.Photo
	}
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// SaveAuthState persists the lockout counters after a login attempt.
func (r *Repository) SaveAuthState(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumns(map[string]any{
			"failed_attempts": user.FailedAttempts,
			"blocked_until":   user.BlockedUntil,
			"active":          user.Active,
		}).Error
}

// SaveResetToken stores the hashed reset token and its expiry.
func (r *Repository) SaveResetToken(ctx context.Context, id uuid.UUID, digest *string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"password_reset_token_hash": digest,
			"password_reset_expires_at": expiresAt,
		}).Error
}

// SavePassword rotates the credential: the reset token is consumed and the
// lockout counters clear along with it.
func (r *Repository) SavePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"password_hash":             passwordHash,
			"password_changed_at":       changedAt,
			"password_reset_token_hash": nil,
			"password_reset_expires_at": nil,
			"failed_attempts":           0,
			"blocked_until":             nil,
		}).Error
}

// Deactivate soft-deletes the account. The row survives for audit and the
// email stays reserved.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("active", false).Error
}

// HardDelete permanently removes the account row. Admin tooling only.
func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
