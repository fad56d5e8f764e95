package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

// StatsRepository implements domain.StatsRepository for PostgreSQL
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new PostgreSQL stats repository
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type statsRow struct {
	TotalReviews          int             `db:"total_reviews"`
	AverageRating         sql.NullFloat64 `db:"average_rating"`
	VerifiedPurchaseCount int             `db:"verified_purchase_count"`
	WithImagesCount       int             `db:"with_images_count"`
	WithResponseCount     int             `db:"with_response_count"`
	Rating1               int             `db:"rating_1"`
	Rating2               int             `db:"rating_2"`
	Rating3               int             `db:"rating_3"`
	Rating4               int             `db:"rating_4"`
	Rating5               int             `db:"rating_5"`
}

// ProductStats aggregates approved reviews of a product. Every figure,
// the distribution included, comes from one statement so they describe
// the same snapshot.
func (r *StatsRepository) ProductStats(ctx context.Context, productID int64) (*domain.ProductStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_reviews,
			AVG(r.rating)::float8 AS average_rating,
			COUNT(*) FILTER (WHERE r.is_verified_purchase) AS verified_purchase_count,
			COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM review_images i WHERE i.review_id = r.id)) AS with_images_count,
			COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM business_responses b WHERE b.review_id = r.id)) AS with_response_count,
			COUNT(*) FILTER (WHERE r.rating = 1) AS rating_1,
			COUNT(*) FILTER (WHERE r.rating = 2) AS rating_2,
			COUNT(*) FILTER (WHERE r.rating = 3) AS rating_3,
			COUNT(*) FILTER (WHERE r.rating = 4) AS rating_4,
			COUNT(*) FILTER (WHERE r.rating = 5) AS rating_5
		FROM reviews r
		WHERE r.product_id = $1 AND r.status = $2
	`

	var row statsRow
	if err := r.db.GetContext(ctx, &row, query, productID, domain.StatusApproved); err != nil {
		return nil, fmt.Errorf("aggregate product stats: %w", err)
	}

	stats := &domain.ProductStats{
		ProductID:             productID,
		TotalReviews:          row.TotalReviews,
		RatingDistribution:    make(map[int]int, 5),
		VerifiedPurchaseCount: row.VerifiedPurchaseCount,
		WithImagesCount:       row.WithImagesCount,
		WithResponseCount:     row.WithResponseCount,
	}
	if row.AverageRating.Valid {
		avg := row.AverageRating.Float64
		stats.AverageRating = &avg
	}

	// Only ratings that occur are reported
	for rating, count := range [...]int{row.Rating1, row.Rating2, row.Rating3, row.Rating4, row.Rating5} {
		if count > 0 {
			stats.RatingDistribution[rating+1] = count
		}
	}

	return stats, nil
}
