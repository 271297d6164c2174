package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credential and lockout state.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Photo     string         `json:"photo"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new account.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Photo        string
	Role         enums.UserRole
}

// UpdateProfileDTO carries the self-service profile fields. Credential fields
// never travel through this path.
type UpdateProfileDTO struct {
	Name  *string
	Email *string
	Photo *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	photo := c.Photo
	if photo == "" {
		photo = "unknown.png"
	}
	return &models.User{
		Name:         strings.TrimSpace(c.Name),
		Slug:         slug.Make(c.Name),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		Photo:        photo,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Active:       true,
	}
}
