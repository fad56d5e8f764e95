package domain

import "context"

// ProductStats aggregates the approved reviews of a product
type ProductStats struct {
	ProductID             int64       `json:"product_id"`
	TotalReviews          int         `json:"total_reviews"`
	AverageRating         *float64    `json:"average_rating"`
	RatingDistribution    map[int]int `json:"rating_distribution"`
	VerifiedPurchaseCount int         `json:"verified_purchase_count"`
	WithImagesCount       int         `json:"with_images_count"`
	WithResponseCount     int         `json:"with_response_count"`
}

// StatsRepository computes review aggregates
type StatsRepository interface {
	// ProductStats aggregates approved reviews of a product
	ProductStats(ctx context.Context, productID int64) (*ProductStats, error)
}
