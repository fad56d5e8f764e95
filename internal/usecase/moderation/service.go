package moderation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/pkg/validator"
)

// StatsInvalidator drops cached aggregates after a write that changes them
type StatsInvalidator interface {
	InvalidateProductStats(ctx context.Context, productID int64) error
}

// Service implements the moderator workflow: review status changes and
// business responses
type Service struct {
	reviews   domain.ReviewRepository
	responses domain.ResponseRepository
	cache     StatsInvalidator
	logger    *logger.Logger
}

// NewService creates a new moderation service
func NewService(
	reviews domain.ReviewRepository,
	responses domain.ResponseRepository,
	cache StatsInvalidator,
	log *logger.Logger,
) *Service {
	return &Service{
		reviews:   reviews,
		responses: responses,
		cache:     cache,
		logger:    log,
	}
}

// ListPending returns reviews awaiting moderation, newest first
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*domain.Review, int, error) {
	pending := domain.StatusPending
	return s.List(ctx, &pending, domain.ReviewFilter{Limit: limit, Offset: offset})
}

// List returns reviews in any state for moderators, including customer
// emails. A nil status matches every state.
func (s *Service) List(ctx context.Context, status *domain.ReviewStatus, filter domain.ReviewFilter) ([]*domain.Review, int, error) {
	if status != nil && !status.Valid() {
		return nil, 0, domain.NewValidationError("status", "must be pending, approved or rejected")
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if _, ok := domain.ParseOrdering(string(filter.Ordering)); !ok {
		filter.Ordering = domain.OrderCreatedAtDesc
	}

	reviews, total, err := s.reviews.List(ctx, status, filter)
	if err != nil {
		s.logger.Error("Failed to list reviews for moderation", err)
		return nil, 0, err
	}

	return reviews, total, nil
}

// Moderate sets a review to approved or rejected. Re-moderating an already
// moderated review is allowed.
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, target domain.ReviewStatus) (*domain.Review, error) {
	current, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := current.Status.Transition(target)
	if err != nil {
		return nil, err
	}

	updated, err := s.reviews.UpdateStatus(ctx, id, next)
	if err != nil {
		s.logger.Error("Failed to update review status", err)
		return nil, err
	}

	s.invalidateStats(ctx, updated.ProductID)

	s.logger.WithFields(map[string]any{
		"review_id":  id,
		"product_id": updated.ProductID,
		"from":       current.Status,
		"to":         updated.Status,
	}).Info("Review moderated")

	return updated, nil
}

// SoftDelete hides a review by forcing it to rejected
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	current, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.reviews.UpdateStatus(ctx, id, current.Status.SoftDelete())
	if err != nil {
		s.logger.Error("Failed to soft-delete review", err)
		return nil, err
	}

	s.invalidateStats(ctx, updated.ProductID)

	s.logger.WithFields(map[string]any{
		"review_id":  id,
		"product_id": updated.ProductID,
		"from":       current.Status,
	}).Info("Review soft-deleted")

	return updated, nil
}

// Respond attaches the single business response to an approved review
func (s *Service) Respond(ctx context.Context, response *domain.BusinessResponse) error {
	review, err := s.reviews.GetByID(ctx, response.ReviewID)
	if err != nil {
		return err
	}
	if !review.Status.IsPublic() {
		return domain.ErrNotFound
	}

	response.ResponderName = strings.TrimSpace(response.ResponderName)
	if err := validator.Struct(response); err != nil {
		return err
	}

	if err := s.responses.Create(ctx, response); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Error("Failed to create business response", err)
		}
		return err
	}

	s.invalidateStats(ctx, review.ProductID)

	s.logger.WithFields(map[string]any{
		"review_id":   response.ReviewID,
		"response_id": response.ID,
	}).Info("Business response added")

	return nil
}

func (s *Service) invalidateStats(ctx context.Context, productID int64) {
	if err := s.cache.InvalidateProductStats(ctx, productID); err != nil {
		s.logger.Warnf("Failed to invalidate stats cache for product %d: %v", productID, err)
	}
}
