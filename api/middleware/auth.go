package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/logger"
)

// TokenChecker validates a bearer token and resolves the account it names.
type TokenChecker interface {
	CheckToken(ctx context.Context, token string) (*models.User, error)
}

const tokenCookieName = "jwt"

// Auth validates the request's credential and seeds the context with the
// authenticated account. The token is read from the Authorization header,
// falling back to the httpOnly cookie set at login.
func Auth(checker TokenChecker, wr responses.Writer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in, please log in to get access"))
				return
			}

			user, err := checker.CheckToken(r.Context(), token)
			if err != nil {
				wr.WriteError(r.Context(), w, err)
				return
			}

			ctx := WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithUserRole(ctx, string(user.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		if token := strings.TrimSpace(raw[7:]); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
