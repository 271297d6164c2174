package middleware

import (
	"net/http"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// RequireRole gates a route on role membership. An empty role set means any
// authenticated user passes. Must run after Auth.
func RequireRole(wr responses.Writer, roles ...enums.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[enums.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in, please log in to get access"))
				return
			}
			if len(allowed) > 0 && !allowed[RoleFromContext(r.Context())] {
				wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to perform this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
