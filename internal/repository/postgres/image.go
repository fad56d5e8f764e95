package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

// ImageRepository implements domain.ImageRepository for PostgreSQL
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository creates a new PostgreSQL image repository
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Attach stores an image. The review row is locked for the duration of the
// transaction so concurrent uploads cannot both pass the count check.
func (r *ImageRepository) Attach(ctx context.Context, image *domain.ReviewImage, maxPerReview int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin image transaction: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.GetContext(ctx, &locked, `SELECT id FROM reviews WHERE id = $1 FOR UPDATE`, image.ReviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock review: %w", err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM review_images WHERE review_id = $1`, image.ReviewID); err != nil {
		return fmt.Errorf("count review images: %w", err)
	}
	if count >= maxPerReview {
		return fmt.Errorf("%w: review already has %d images", domain.ErrConflict, count)
	}

	query := `
		INSERT INTO review_images (review_id, content_type, size_bytes, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at
	`
	err = tx.QueryRowxContext(ctx, query, image.ReviewID, image.ContentType, image.SizeBytes, image.Data).
		Scan(&image.ID, &image.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert review image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit image transaction: %w", err)
	}

	return nil
}

// Get retrieves one image including its content
func (r *ImageRepository) Get(ctx context.Context, reviewID, imageID uuid.UUID) (*domain.ReviewImage, error) {
	query := `
		SELECT id, review_id, content_type, size_bytes, data, uploaded_at
		FROM review_images
		WHERE id = $1 AND review_id = $2
	`

	var image domain.ReviewImage
	if err := r.db.GetContext(ctx, &image, query, imageID, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review image: %w", err)
	}

	return &image, nil
}

// ListByReview returns image metadata without content
func (r *ImageRepository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]*domain.ReviewImage, error) {
	query := `
		SELECT id, review_id, content_type, size_bytes, uploaded_at
		FROM review_images
		WHERE review_id = $1
		ORDER BY uploaded_at ASC, id ASC
	`

	images := []*domain.ReviewImage{}
	if err := r.db.SelectContext(ctx, &images, query, reviewID); err != nil {
		return nil, fmt.Errorf("list review images: %w", err)
	}

	return images, nil
}
