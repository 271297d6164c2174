package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourhub-io/tourhub-backend/pkg/enums"
)

// Tour is the bookable product entity.
type Tour struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string               `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Slug            string               `gorm:"type:text" json:"slug,omitempty"`
	Price           decimal.Decimal      `gorm:"type:numeric(10,2);not null" json:"price"`
	PriceDiscount   *decimal.Decimal     `gorm:"type:numeric(10,2)" json:"price_discount,omitempty"`
	Duration        int                  `gorm:"not null" json:"duration"`
	MaxGroupSize    int                  `gorm:"column:max_group_size;not null" json:"max_group_size"`
	Difficulty      enums.TourDifficulty `gorm:"type:text;not null" json:"difficulty"`
	AverageRatings  float64              `gorm:"column:average_ratings;not null;default:4.5" json:"average_ratings"`
	RatingsQuantity int                  `gorm:"column:ratings_quantity;not null;default:0" json:"ratings_quantity"`
	Summary         string               `gorm:"type:text;not null" json:"summary"`
	Description     string               `gorm:"type:text" json:"description,omitempty"`
	ImageCover      string               `gorm:"column:image_cover;type:text" json:"image_cover,omitempty"`
	Secret          bool                 `gorm:"column:secret;not null;default:false" json:"-"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
