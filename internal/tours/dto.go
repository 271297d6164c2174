package tours

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

// TourDTO is the outbound tour shape. The secret flag never leaves the API.
type TourDTO struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Slug            string               `json:"slug"`
	Price           decimal.Decimal      `json:"price"`
	PriceDiscount   *decimal.Decimal     `json:"price_discount,omitempty"`
	Duration        int                  `json:"duration"`
	MaxGroupSize    int                  `json:"max_group_size"`
	Difficulty      enums.TourDifficulty `json:"difficulty"`
	AverageRatings  float64              `json:"average_ratings"`
	RatingsQuantity int                  `json:"ratings_quantity"`
	Summary         string               `json:"summary"`
	Description     string               `json:"description,omitempty"`
	ImageCover      string               `json:"image_cover,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CreateTourInput holds the validated payload to create a tour.
type CreateTourInput struct {
	Name          string               `json:"name" validate:"required,min=10,max=45"`
	Price         decimal.Decimal      `json:"price" validate:"required"`
	PriceDiscount *decimal.Decimal     `json:"price_discount,omitempty"`
	Duration      int                  `json:"duration" validate:"required,gt=0"`
	MaxGroupSize  int                  `json:"max_group_size" validate:"required,gt=0"`
	Difficulty    enums.TourDifficulty `json:"difficulty" validate:"required"`
	Summary       string               `json:"summary" validate:"required"`
	Description   string               `json:"description,omitempty"`
	ImageCover    string               `json:"image_cover,omitempty"`
	Secret        bool                 `json:"-"`
}

// UpdateTourInput holds the partial-update payload. Nil fields are untouched.
type UpdateTourInput struct {
	Name          *string               `json:"name,omitempty" validate:"omitempty,min=10,max=45"`
	Price         *decimal.Decimal      `json:"price,omitempty"`
	PriceDiscount *decimal.Decimal      `json:"price_discount,omitempty"`
	Duration      *int                  `json:"duration,omitempty" validate:"omitempty,gt=0"`
	MaxGroupSize  *int                  `json:"max_group_size,omitempty" validate:"omitempty,gt=0"`
	Difficulty    *enums.TourDifficulty `json:"difficulty,omitempty"`
	Summary       *string               `json:"summary,omitempty"`
	Description   *string               `json:"description,omitempty"`
	ImageCover    *string               `json:"image_cover,omitempty"`
}

// DifficultyStats is one row of the per-difficulty aggregation.
type DifficultyStats struct {
	Difficulty string          `json:"difficulty"`
	NumTours   int             `json:"num_tours"`
	NumRatings int             `json:"num_ratings"`
	AvgRating  float64         `json:"avg_rating"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
}

func FromModel(t *models.Tour) *TourDTO {
	if t == nil {
		return nil
	}
	return &TourDTO{
		ID:              t.ID,
		Name:            t.Name,
		Slug:            t.Slug,
		Price:           t.Price,
		PriceDiscount:   t.PriceDiscount,
		Duration:        t.Duration,
		MaxGroupSize:    t.MaxGroupSize,
		Difficulty:      t.Difficulty,
		AverageRatings:  t.AverageRatings,
		RatingsQuantity: t.RatingsQuantity,
		Summary:         t.Summary,
		Description:     t.Description,
		ImageCover:      t.ImageCover,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func FromModels(list []models.Tour) []TourDTO {
	out := make([]TourDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateTourInput) ToModel() *models.Tour {
	return &models.Tour{
		Name:          c.Name,
		Slug:          slug.Make(c.Name),
		Price:         c.Price,
		PriceDiscount: c.PriceDiscount,
		Duration:      c.Duration,
		MaxGroupSize:  c.MaxGroupSize,
		Difficulty:    c.Difficulty,
		Summary:       c.Summary,
		Description:   c.Description,
		ImageCover:    c.ImageCover,
		Secret:        c.Secret,
	}
}
