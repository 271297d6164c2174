package tours

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	"github.com/tourhub-io/tourhub-backend/pkg/db"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// Service exposes tour catalog operations.
type Service interface {
	CreateTour(ctx context.Context, input CreateTourInput) (*TourDTO, error)
	GetTour(ctx context.Context, id uuid.UUID) (*TourDTO, error)
	ListTours(ctx context.Context, d apiquery.Directives) ([]TourDTO, error)
	UpdateTour(ctx context.Context, id uuid.UUID, input UpdateTourInput) (*TourDTO, error)
	DeleteTour(ctx context.Context, id uuid.UUID) error
	TourStats(ctx context.Context) ([]DifficultyStats, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a tour service over the repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tour repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateTour(ctx context.Context, input CreateTourInput) (*TourDTO, error) {
	if !input.Difficulty.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "difficulty must be easy, medium or difficult")
	}
	if input.PriceDiscount != nil && input.PriceDiscount.GreaterThanOrEqual(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below the regular price")
	}

	tour, err := s.repo.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateField, "a tour with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tour")
	}
	return FromModel(tour), nil
}

func (s *service) GetTour(ctx context.Context, id uuid.UUID) (*TourDTO, error) {
	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no tour found with that id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tour")
	}
	return FromModel(tour), nil
}

func (s *service) ListTours(ctx context.Context, d apiquery.Directives) ([]TourDTO, error) {
	list, err := s.repo.List(ctx, d)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tours")
	}
	return FromModels(list), nil
}

func (s *service) UpdateTour(ctx context.Context, id uuid.UUID, input UpdateTourInput) (*TourDTO, error) {
	if input.Difficulty != nil && !input.Difficulty.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "difficulty must be easy, medium or difficult")
	}

	tour, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no tour found with that id")
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateField, "a tour with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update tour")
	}
	return FromModel(tour), nil
}

func (s *service) DeleteTour(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no tour found with that id")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete tour")
	}
	return nil
}

func (s *service) TourStats(ctx context.Context) ([]DifficultyStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate tour stats")
	}
	return stats, nil
}

// TopToursDirectives is the canned directive set behind the top-5 alias
// route: the five best-rated tours, cheapest first among ties, trimmed to
// the card fields.
func TopToursDirectives() apiquery.Directives {
	return apiquery.Directives{
		Page:  1,
		Limit: 5,
		Sort: []apiquery.SortField{
			{Column: "average_ratings", Desc: true},
			{Column: "price"},
		},
		Fields: []string{"name", "price", "average_ratings", "summary", "difficulty"},
	}
}
