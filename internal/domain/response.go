package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BusinessResponse is the merchant's single public reply to a review
type BusinessResponse struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ReviewID      uuid.UUID `json:"review_id" db:"review_id"`
	ResponseText  string    `json:"response_text" db:"response_text" validate:"required,min=20,max=5000"`
	ResponderName string    `json:"responder_name" db:"responder_name" validate:"required,min=1,max=100"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ResponseRepository defines the interface for business response data access
type ResponseRepository interface {
	// Create inserts the response; ErrAlreadyExists if the review has one
	Create(ctx context.Context, response *BusinessResponse) error

	// GetByReviewID returns the response of a review or ErrNotFound
	GetByReviewID(ctx context.Context, reviewID uuid.UUID) (*BusinessResponse, error)
}
