package controllers

import (
	"net/http"

	"github.com/tourhub-io/tourhub-backend/api/middleware"
	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/api/validators"
	usersvc "github.com/tourhub-io/tourhub-backend/internal/users"
	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// ListUsers returns the active accounts. Admin surface.
func ListUsers(svc *usersvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directives, err := apiquery.Parse(r.URL.Query())
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		users, err := svc.ListUsers(r.Context(), directives)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(users), users)
	}
}

// GetUser returns a single active account by id. Admin surface.
func GetUser(svc *usersvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// GetMe returns the calling account's own profile.
func GetMe(wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in, please log in to get access"))
			return
		}
		responses.WriteSuccess(w, usersvc.FromModel(user))
	}
}

type updateMeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=3,max=25"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo           *string `json:"photo,omitempty"`
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`
}

// UpdateMe applies self-service profile edits for the calling account.
// Credential fields are rejected outright so password rotation stays on the
// reset flow where the token lifecycle is enforced.
func UpdateMe(svc *usersvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in, please log in to get access"))
			return
		}

		var payload updateMeRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		if payload.Password != nil || payload.PasswordConfirm != nil {
			wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation,
				"this route is not for password updates, please use /forgot-password"))
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), user.ID, usersvc.UpdateProfileDTO{
			Name:  payload.Name,
			Email: payload.Email,
			Photo: payload.Photo,
		})
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// DeleteMe soft-deletes the calling account.
func DeleteMe(svc *usersvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you are not logged in, please log in to get access"))
			return
		}

		if err := svc.DeactivateSelf(r.Context(), user.ID); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteUser removes an account permanently. Admin surface.
func DeleteUser(svc *usersvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
