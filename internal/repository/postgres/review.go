package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/database"
)

const reviewColumns = `id, product_id, customer_email, customer_name, rating, title, comment,
	is_verified_purchase, status, created_at, updated_at`

// Derived read-model columns; counts are never stored
const reviewViewColumns = `r.id, r.product_id, r.customer_name, r.rating, r.title, r.comment,
	r.is_verified_purchase, r.created_at,
	(SELECT COUNT(*) FROM helpful_votes v WHERE v.review_id = r.id AND v.is_helpful) AS helpful_count,
	(SELECT COUNT(*) FROM helpful_votes v WHERE v.review_id = r.id AND NOT v.is_helpful) AS not_helpful_count,
	EXISTS (SELECT 1 FROM review_images i WHERE i.review_id = r.id) AS has_images,
	EXISTS (SELECT 1 FROM business_responses b WHERE b.review_id = r.id) AS has_response`

var orderClauses = map[domain.Ordering]string{
	domain.OrderCreatedAtDesc: "r.created_at DESC, r.id DESC",
	domain.OrderCreatedAtAsc:  "r.created_at ASC, r.id ASC",
	domain.OrderRatingDesc:    "r.rating DESC, r.created_at DESC, r.id DESC",
	domain.OrderRatingAsc:     "r.rating ASC, r.created_at DESC, r.id DESC",
}

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a pending review
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, customer_email, customer_name, rating, title, comment, is_verified_purchase)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.ProductID,
		review.CustomerEmail,
		review.CustomerName,
		review.Rating,
		review.Title,
		review.Comment,
		review.IsVerifiedPurchase,
	).Scan(
		&review.ID,
		&review.Status,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "reviews_product_customer_key") {
			return fmt.Errorf("%w: customer already reviewed product %d", domain.ErrConflict, review.ProductID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review in any status
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// GetPublicByID retrieves an approved review with its derived counts
func (r *ReviewRepository) GetPublicByID(ctx context.Context, id uuid.UUID) (*domain.ReviewView, error) {
	query := `SELECT ` + reviewViewColumns + ` FROM reviews r WHERE r.id = $1 AND r.status = $2`

	var view domain.ReviewView
	if err := r.db.GetContext(ctx, &view, query, id, domain.StatusApproved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get public review: %w", err)
	}

	return &view, nil
}

// ExistsForCustomer reports whether the customer already reviewed the product
func (r *ReviewRepository) ExistsForCustomer(ctx context.Context, productID int64, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE product_id = $1 AND customer_email = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, productID, email); err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}

	return exists, nil
}

// ListPublic lists approved reviews matching the filter
func (r *ReviewRepository) ListPublic(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewView, int, error) {
	approved := domain.StatusApproved
	where, args := buildReviewWhere(&approved, filter, publicSearchColumns)

	query := fmt.Sprintf(
		`SELECT %s FROM reviews r WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		reviewViewColumns, where, orderClause(filter.Ordering), len(args)+1, len(args)+2,
	)

	reviews := []*domain.ReviewView{}
	if err := r.db.SelectContext(ctx, &reviews, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews r WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	return reviews, total, nil
}

// List lists reviews with customer emails for moderators. A nil status
// matches every state.
func (r *ReviewRepository) List(ctx context.Context, status *domain.ReviewStatus, filter domain.ReviewFilter) ([]*domain.Review, int, error) {
	where, args := buildReviewWhere(status, filter, moderationSearchColumns)

	query := fmt.Sprintf(
		`SELECT %s FROM reviews r WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		reviewColumns, where, orderClause(filter.Ordering), len(args)+1, len(args)+2,
	)

	reviews := []*domain.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("list reviews for moderation: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews r WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews for moderation: %w", err)
	}

	return reviews, total, nil
}

// UpdateStatus writes the status without checking the current one
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + reviewColumns

	var review domain.Review
	if err := r.db.GetContext(ctx, &review, query, status, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update review status: %w", err)
	}

	return &review, nil
}

var (
	publicSearchColumns     = []string{"r.title", "r.comment", "r.customer_name"}
	moderationSearchColumns = []string{"r.title", "r.comment", "r.customer_email"}
)

func orderClause(o domain.Ordering) string {
	if clause, ok := orderClauses[o]; ok {
		return clause
	}
	return orderClauses[domain.OrderCreatedAtDesc]
}

// buildReviewWhere translates a filter into a WHERE clause over alias r.
// A nil status adds no status condition. Free text is matched against
// searchColumns. Placeholders are numbered from $1 in the order of the
// returned args.
func buildReviewWhere(status *domain.ReviewStatus, filter domain.ReviewFilter, searchColumns []string) (string, []any) {
	var (
		args  []any
		conds []string
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if status != nil {
		add("r.status = $%d", *status)
	}
	if filter.ProductID != nil {
		add("r.product_id = $%d", *filter.ProductID)
	}
	if filter.Rating != nil {
		add("r.rating = $%d", *filter.Rating)
	}
	if filter.VerifiedPurchase != nil {
		add("r.is_verified_purchase = $%d", *filter.VerifiedPurchase)
	}
	if search := strings.TrimSpace(filter.Search); search != "" && len(searchColumns) > 0 {
		args = append(args, "%"+escapeLike(search)+"%")
		matches := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			matches[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		conds = append(conds, "("+strings.Join(matches, " OR ")+")")
	}

	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
