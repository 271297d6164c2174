package controllers

import (
	"net/http"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/api/validators"
	toursvc "github.com/tourhub-io/tourhub-backend/internal/tours"
	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
)

// CreateTour persists a new tour. Admin and lead-guide surface.
func CreateTour(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload toursvc.CreateTourInput
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		tour, err := svc.CreateTour(r.Context(), payload)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, tour)
	}
}

// GetTour returns a single non-secret tour.
func GetTour(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		tour, err := svc.GetTour(r.Context(), id)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, tour)
	}
}

// ListTours returns tours shaped by the request's query directives.
func ListTours(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directives, err := apiquery.Parse(r.URL.Query())
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		tours, err := svc.ListTours(r.Context(), directives)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(tours), tours)
	}
}

// TopTours is the curated alias: five highest-rated, cheapest-first tours
// with a fixed projection. Client directives are ignored on this route.
func TopTours(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tours, err := svc.ListTours(r.Context(), toursvc.TopToursDirectives())
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(tours), tours)
	}
}

// UpdateTour applies a partial update. Admin and lead-guide surface.
func UpdateTour(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		var payload toursvc.UpdateTourInput
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		tour, err := svc.UpdateTour(r.Context(), id, payload)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, tour)
	}
}

// DeleteTour removes a tour. Admin and lead-guide surface.
func DeleteTour(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		if err := svc.DeleteTour(r.Context(), id); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// TourStats returns per-difficulty aggregates over well-rated public tours.
func TourStats(svc toursvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.TourStats(r.Context())
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
