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

// ResponseRepository implements domain.ResponseRepository for PostgreSQL
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository creates a new PostgreSQL business response repository
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create inserts the response. The unique index on review_id decides races.
func (r *ResponseRepository) Create(ctx context.Context, response *domain.BusinessResponse) error {
	query := `
		INSERT INTO business_responses (review_id, response_text, responder_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (review_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, response.ReviewID, response.ResponseText, response.ResponderName).
		Scan(&response.ID, &response.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert business response: %w", err)
	}

	return nil
}

// GetByReviewID returns the response attached to a review
func (r *ResponseRepository) GetByReviewID(ctx context.Context, reviewID uuid.UUID) (*domain.BusinessResponse, error) {
	query := `
		SELECT id, review_id, response_text, responder_name, created_at
		FROM business_responses
		WHERE review_id = $1
	`

	var response domain.BusinessResponse
	if err := r.db.GetContext(ctx, &response, query, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get business response: %w", err)
	}

	return &response, nil
}
