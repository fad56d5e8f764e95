package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review represents a customer's review of a product
type Review struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	ProductID          int64        `json:"product_id" db:"product_id" validate:"required,gt=0"`
	CustomerEmail      string       `json:"customer_email" db:"customer_email" validate:"required,email,max=254"`
	CustomerName       string       `json:"customer_name" db:"customer_name" validate:"required,min=1,max=100"`
	Rating             int          `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Title              string       `json:"title" db:"title" validate:"required,min=10,max=200"`
	Comment            *string      `json:"comment,omitempty" db:"comment" validate:"omitempty,max=2000"`
	IsVerifiedPurchase bool         `json:"is_verified_purchase" db:"is_verified_purchase"`
	Status             ReviewStatus `json:"status" db:"status"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// ReviewView is the public read model of an approved review. Vote counts
// and presence flags are computed by the store, not persisted.
type ReviewView struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ProductID          int64     `json:"product_id" db:"product_id"`
	CustomerName       string    `json:"customer_name" db:"customer_name"`
	Rating             int       `json:"rating" db:"rating"`
	Title              string    `json:"title" db:"title"`
	Comment            *string   `json:"comment,omitempty" db:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase" db:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	HelpfulCount       int       `json:"helpful_count" db:"helpful_count"`
	NotHelpfulCount    int       `json:"not_helpful_count" db:"not_helpful_count"`
	HasImages          bool      `json:"has_images" db:"has_images"`
	HasResponse        bool      `json:"has_response" db:"has_response"`
}

// Ordering is a whitelisted sort order for review listings
type Ordering string

const (
	OrderCreatedAtDesc Ordering = "-created_at"
	OrderCreatedAtAsc  Ordering = "created_at"
	OrderRatingDesc    Ordering = "-rating"
	OrderRatingAsc     Ordering = "rating"
)

// ParseOrdering returns the ordering for a query value. Unknown values
// yield the default ordering and false.
func ParseOrdering(value string) (Ordering, bool) {
	switch o := Ordering(value); o {
	case OrderCreatedAtDesc, OrderCreatedAtAsc, OrderRatingDesc, OrderRatingAsc:
		return o, true
	}
	return OrderCreatedAtDesc, false
}

// ReviewFilter narrows a review listing. Nil fields are not applied.
type ReviewFilter struct {
	ProductID        *int64
	Rating           *int
	VerifiedPurchase *bool
	Search           string
	Ordering         Ordering
	Limit            int
	Offset           int
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create inserts a pending review; duplicate (product, email) yields ErrConflict
	Create(ctx context.Context, review *Review) error

	// GetByID retrieves a review in any status
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// GetPublicByID retrieves an approved review with derived counts
	GetPublicByID(ctx context.Context, id uuid.UUID) (*ReviewView, error)

	// ExistsForCustomer reports whether the customer already reviewed the product
	ExistsForCustomer(ctx context.Context, productID int64, email string) (bool, error)

	// ListPublic lists approved reviews matching the filter and the total match count
	ListPublic(ctx context.Context, filter ReviewFilter) ([]*ReviewView, int, error)

	// List lists reviews in the given status (any status when nil) matching
	// the filter, including customer emails
	List(ctx context.Context, status *ReviewStatus, filter ReviewFilter) ([]*Review, int, error)

	// UpdateStatus writes a new status unconditionally
	UpdateStatus(ctx context.Context, id uuid.UUID, status ReviewStatus) (*Review, error)
}
