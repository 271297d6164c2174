package tours

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tourhub-io/tourhub-backend/pkg/apiquery"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
)

// Schema is the query-builder contract for the tours collection. Secret
// tours stay out of every public query.
var Schema = apiquery.Schema{
	Columns: map[string]bool{
		"name":             true,
		"price":            true,
		"duration":         true,
		"max_group_size":   true,
		"difficulty":       true,
		"average_ratings":  true,
		"ratings_quantity": true,
		"summary":          true,
		"created_at":       true,
	},
	AllColumns: []string{
		"name",
		"slug",
		"price",
		"price_discount",
		"duration",
		"max_group_size",
		"difficulty",
		"average_ratings",
		"ratings_quantity",
		"summary",
		"description",
		"image_cover",
		"secret",
		"created_at",
		"updated_at",
	},
	AlwaysExclude: []string{"secret"},
	DefaultFilter: &apiquery.Clause{Query: "secret = ?", Args: []any{false}},
}

// Repository exposes tour persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tours repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new tour and returns the persisted model.
func (r *Repository) Create(ctx context.Context, input CreateTourInput) (*models.Tour, error) {
	tour := input.ToModel()
	if tour.ID == uuid.Nil {
		tour.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(tour).Error; err != nil {
		return nil, err
	}
	return tour, nil
}

// FindByID loads a non-secret tour by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.WithContext(ctx).Where("secret = ?", false).First(&tour, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// List executes a directive-driven query against the tours collection.
func (r *Repository) List(ctx context.Context, d apiquery.Directives) ([]models.Tour, error) {
	var out []models.Tour
	q := apiquery.New(r.db.WithContext(ctx).Model(&models.Tour{}), Schema, d).Apply().Query()
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields and returns the refreshed model.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateTourInput) (*models.Tour, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
		updates["slug"] = slug.Make(*input.Name)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.PriceDiscount != nil {
		updates["price_discount"] = *input.PriceDiscount
	}
	if input.Duration != nil {
		updates["duration"] = *input.Duration
	}
	if input.MaxGroupSize != nil {
		updates["max_group_size"] = *input.MaxGroupSize
	}
	if input.Difficulty != nil {
		updates["difficulty"] = *input.Difficulty
	}
	if input.Summary != nil {
		updates["summary"] = *input.Summary
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageCover != nil {
		updates["image_cover"] = *input.ImageCover
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Tour{}).
			Where("id = ? AND secret = ?", id, false).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a tour row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Tour{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Stats aggregates well-rated tours per difficulty.
func (r *Repository) Stats(ctx context.Context) ([]DifficultyStats, error) {
	var out []DifficultyStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT difficulty,
		       COUNT(*)              AS num_tours,
		       SUM(ratings_quantity) AS num_ratings,
		       AVG(average_ratings)  AS avg_rating,
		       AVG(price)            AS avg_price,
		       MIN(price)            AS min_price,
		       MAX(price)            AS max_price
		FROM tours
		WHERE average_ratings >= ? AND secret = ?
		GROUP BY difficulty
		ORDER BY avg_price ASC`, 4.5, false).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
