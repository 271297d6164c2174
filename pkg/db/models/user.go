package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

// User represents the canonical account entity, including the credential and
// lockout state consumed by the auth service.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:text;not null" json:"name"`
	Slug         string         `gorm:"type:text" json:"slug,omitempty"`
	Email        string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Photo        string         `gorm:"type:text;not null;default:unknown.png" json:"photo"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole `gorm:"type:text;not null;default:user" json:"role"`
	Active       bool           `gorm:"column:active;not null;default:true" json:"-"`

	FailedAttempts int        `gorm:"column:failed_attempts;not null;default:0" json:"-"`
	BlockedUntil   *time.Time `gorm:"column:blocked_until" json:"-"`

	PasswordChangedAt      *time.Time `gorm:"column:password_changed_at" json:"-"`
	PasswordResetTokenHash *string    `gorm:"column:password_reset_token_hash" json:"-"`
	PasswordResetExpiresAt *time.Time `gorm:"column:password_reset_expires_at" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsBlocked reports whether a lockout is currently in force.
func (u *User) IsBlocked(now time.Time) bool {
	return u.BlockedUntil != nil && now.Before(*u.BlockedUntil)
}

// PasswordChangedAfter reports whether the password changed after the given
// instant. Used to invalidate tokens issued before a password change.
func (u *User) PasswordChangedAfter(t time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(t)
}
