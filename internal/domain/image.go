package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxImageBytes is the largest accepted image upload
	MaxImageBytes = 5 * 1024 * 1024

	// MaxImagesPerReview caps how many images a single review may hold
	MaxImagesPerReview = 5
)

// AcceptedImageTypes lists the content types a review image may have
var AcceptedImageTypes = []string{"image/jpeg", "image/png"}

// ReviewImage is an image attached to a review
type ReviewImage struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ReviewID    uuid.UUID `json:"review_id" db:"review_id"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	Data        []byte    `json:"-" db:"data"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// ImageRepository defines the interface for review image storage
type ImageRepository interface {
	// Attach stores the image unless the review already holds maxPerReview
	// images, in which case it returns ErrConflict
	Attach(ctx context.Context, image *ReviewImage, maxPerReview int) error

	// Get retrieves one image of a review
	Get(ctx context.Context, reviewID, imageID uuid.UUID) (*ReviewImage, error)

	// ListByReview returns image metadata for a review, oldest first
	ListByReview(ctx context.Context, reviewID uuid.UUID) ([]*ReviewImage, error)
}
