package middleware

import (
	"context"

	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

type contextKey string

const ctxUser contextKey = "authenticated_user"

// WithUser injects the authenticated account into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the authenticated account, or nil on public routes.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if u, ok := ctx.Value(ctxUser).(*models.User); ok {
		return u
	}
	return nil
}

// RoleFromContext returns the authenticated account's role, empty when
// unauthenticated.
func RoleFromContext(ctx context.Context) enums.UserRole {
	if u := UserFromContext(ctx); u != nil {
		return u.Role
	}
	return ""
}
