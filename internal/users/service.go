package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	"github.com/tourhub-io/tourhub-backend/pkg/db"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// Service exposes the account operations that sit outside the auth flows:
// admin listing, self-service profile updates, and account removal.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUsers(ctx context.Context, d apiquery.Directives) ([]UserDTO, error) {
	records, err := s.repo.List(ctx, d)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(records))
	for i := range records {
		out = append(out, *FromModel(&records[i]))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no user found with that id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get user")
	}
	return FromModel(user), nil
}

// UpdateProfile applies the self-service profile fields for the calling
// account. Password changes never travel through this path.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (*UserDTO, error) {
	user, err := s.repo.UpdateProfile(ctx, id, dto)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no user found with that id")
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateField, err, "email already registered").
				WithDetails(map[string]string{"email": "already registered"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return FromModel(user), nil
}

// DeactivateSelf soft-deletes the calling account. The row survives so audit
// history keeps its foreign keys, but every active-scoped query stops seeing it.
func (s *Service) DeactivateSelf(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no user found with that id")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate user")
	}
	return nil
}

// DeleteUser removes an account outright. Admin surface only.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.HardDelete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no user found with that id")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}
