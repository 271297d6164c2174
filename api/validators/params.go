package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// ParseUUIDParam reads a route parameter and parses it as a UUID. A malformed
// identifier is a cast failure, not a lookup miss.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeCast, "malformed identifier").
			WithDetails(map[string]any{"param": key, "value": raw})
	}
	return id, nil
}
