package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/pkg/validator"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// StatsInvalidator drops cached aggregates after a write that changes them
type StatsInvalidator interface {
	InvalidateProductStats(ctx context.Context, productID int64) error
}

// ImageLimits bounds review image uploads
type ImageLimits struct {
	MaxBytes     int64
	MaxPerReview int
}

// DefaultImageLimits returns the 5 MiB / 5 images policy
func DefaultImageLimits() ImageLimits {
	return ImageLimits{MaxBytes: domain.MaxImageBytes, MaxPerReview: domain.MaxImagesPerReview}
}

// Detail is a public review together with its images and business response
type Detail struct {
	*domain.ReviewView
	Images   []*domain.ReviewImage    `json:"images"`
	Response *domain.BusinessResponse `json:"business_response"`
}

// Service handles customer-facing review operations
type Service struct {
	reviews   domain.ReviewRepository
	images    domain.ImageRepository
	votes     domain.VoteRepository
	responses domain.ResponseRepository
	cache     StatsInvalidator
	limits    ImageLimits
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	reviews domain.ReviewRepository,
	images domain.ImageRepository,
	votes domain.VoteRepository,
	responses domain.ResponseRepository,
	cache StatsInvalidator,
	limits ImageLimits,
	log *logger.Logger,
) *Service {
	return &Service{
		reviews:   reviews,
		images:    images,
		votes:     votes,
		responses: responses,
		cache:     cache,
		limits:    limits,
		logger:    log,
	}
}

// Limits returns the image upload limits the service enforces
func (s *Service) Limits() ImageLimits {
	return s.limits
}

// Submit validates and stores a new review in the pending state
func (s *Service) Submit(ctx context.Context, review *domain.Review) error {
	normalizeReview(review)

	if err := validator.Struct(review); err != nil {
		s.logger.Debugf("Review validation failed: %v", err)
		return err
	}

	exists, err := s.reviews.ExistsForCustomer(ctx, review.ProductID, review.CustomerEmail)
	if err != nil {
		s.logger.Error("Failed to check for existing review", err)
		return err
	}
	if exists {
		return fmt.Errorf("%w: you have already reviewed this product", domain.ErrConflict)
	}

	review.Status = domain.StatusPending
	if err := s.reviews.Create(ctx, review); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error("Failed to create review", err)
		}
		return err
	}

	s.logger.WithFields(map[string]any{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review submitted for moderation")

	return nil
}

// Get returns an approved review with its images and response
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	view, err := s.reviews.GetPublicByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Public review not found: %s", id)
		} else {
			s.logger.Error("Failed to get review", err)
		}
		return nil, err
	}

	detail := &Detail{ReviewView: view, Images: []*domain.ReviewImage{}}

	if view.HasImages {
		if detail.Images, err = s.images.ListByReview(ctx, id); err != nil {
			s.logger.Error("Failed to list review images", err)
			return nil, err
		}
	}

	if view.HasResponse {
		detail.Response, err = s.responses.GetByReviewID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to get business response", err)
			return nil, err
		}
	}

	return detail, nil
}

// List returns approved reviews matching the filter and the total match count
func (s *Service) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewView, int, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	if _, ok := domain.ParseOrdering(string(filter.Ordering)); !ok {
		filter.Ordering = domain.OrderCreatedAtDesc
	}

	reviews, total, err := s.reviews.ListPublic(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list reviews", err)
		return nil, 0, err
	}

	return reviews, total, nil
}

// AttachImage validates an uploaded image and attaches it to a review.
// Any review may receive images; only approved ones expose them.
func (s *Service) AttachImage(ctx context.Context, reviewID uuid.UUID, data []byte) (*domain.ReviewImage, error) {
	size := int64(len(data))
	if size == 0 {
		return nil, domain.NewValidationError("image", "is required")
	}
	if size > s.limits.MaxBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("size must be at most %d bytes", s.limits.MaxBytes))
	}

	mtype := mimetype.Detect(data)
	if !acceptedImage(mtype) {
		return nil, domain.NewValidationError("image", "only JPG and PNG images are allowed")
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	image := &domain.ReviewImage{
		ReviewID:    reviewID,
		ContentType: mtype.String(),
		SizeBytes:   size,
		Data:        data,
	}

	if err := s.images.Attach(ctx, image, s.limits.MaxPerReview); err != nil {
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to attach review image", err)
		}
		return nil, err
	}

	if review.Status.IsPublic() {
		s.invalidateStats(ctx, review.ProductID)
	}

	s.logger.WithFields(map[string]any{
		"review_id":    reviewID,
		"image_id":     image.ID,
		"content_type": image.ContentType,
		"size_bytes":   size,
	}).Info("Review image uploaded")

	return image, nil
}

// GetImage returns an image of an approved review
func (s *Service) GetImage(ctx context.Context, reviewID, imageID uuid.UUID) (*domain.ReviewImage, error) {
	if _, err := s.reviews.GetPublicByID(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.images.Get(ctx, reviewID, imageID)
}

// Vote records or updates a voter's helpfulness judgment on an approved review
func (s *Service) Vote(ctx context.Context, vote *domain.HelpfulVote) error {
	vote.VoterEmail = normalizeEmail(vote.VoterEmail)
	if err := validator.Struct(vote); err != nil {
		return err
	}

	review, err := s.reviews.GetByID(ctx, vote.ReviewID)
	if err != nil {
		return err
	}
	if !review.Status.IsPublic() {
		return domain.ErrNotFound
	}

	if vote.IsSelfVote(review) {
		return fmt.Errorf("%w: you cannot vote on your own review", domain.ErrConflict)
	}

	created, err := s.votes.Upsert(ctx, vote)
	if err != nil {
		s.logger.Error("Failed to record vote", err)
		return err
	}

	s.logger.WithFields(map[string]any{
		"review_id":  vote.ReviewID,
		"is_helpful": vote.IsHelpful,
		"created":    created,
	}).Debug("Helpful vote recorded")

	return nil
}

func (s *Service) invalidateStats(ctx context.Context, productID int64) {
	if err := s.cache.InvalidateProductStats(ctx, productID); err != nil {
		s.logger.Warnf("Failed to invalidate stats cache for product %d: %v", productID, err)
	}
}

func normalizeReview(review *domain.Review) {
	review.CustomerEmail = normalizeEmail(review.CustomerEmail)
	review.CustomerName = strings.TrimSpace(review.CustomerName)
	review.Title = strings.TrimSpace(review.Title)
	if review.Comment != nil && strings.TrimSpace(*review.Comment) == "" {
		review.Comment = nil
	}
}

func acceptedImage(mtype *mimetype.MIME) bool {
	for _, accepted := range domain.AcceptedImageTypes {
		if mtype.Is(accepted) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
