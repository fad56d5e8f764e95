// Package mocks provides testify mocks for the domain repositories and the
// stats cache, shared by use-case and handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

var (
	_ domain.ReviewRepository   = (*ReviewRepository)(nil)
	_ domain.ImageRepository    = (*ImageRepository)(nil)
	_ domain.ResponseRepository = (*ResponseRepository)(nil)
	_ domain.VoteRepository     = (*VoteRepository)(nil)
	_ domain.StatsRepository    = (*StatsRepository)(nil)
)

// ReviewRepository mocks domain.ReviewRepository
type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewRepository) GetPublicByID(ctx context.Context, id uuid.UUID) (*domain.ReviewView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewView), args.Error(1)
}

func (m *ReviewRepository) ExistsForCustomer(ctx context.Context, productID int64, email string) (bool, error) {
	args := m.Called(ctx, productID, email)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepository) ListPublic(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewView, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ReviewView), args.Int(1), args.Error(2)
}

func (m *ReviewRepository) List(ctx context.Context, status *domain.ReviewStatus, filter domain.ReviewFilter) ([]*domain.Review, int, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Review), args.Int(1), args.Error(2)
}

func (m *ReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus) (*domain.Review, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

// ImageRepository mocks domain.ImageRepository
type ImageRepository struct {
	mock.Mock
}

func (m *ImageRepository) Attach(ctx context.Context, image *domain.ReviewImage, maxPerReview int) error {
	args := m.Called(ctx, image, maxPerReview)
	return args.Error(0)
}

func (m *ImageRepository) Get(ctx context.Context, reviewID, imageID uuid.UUID) (*domain.ReviewImage, error) {
	args := m.Called(ctx, reviewID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewImage), args.Error(1)
}

func (m *ImageRepository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]*domain.ReviewImage, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewImage), args.Error(1)
}

// ResponseRepository mocks domain.ResponseRepository
type ResponseRepository struct {
	mock.Mock
}

func (m *ResponseRepository) Create(ctx context.Context, response *domain.BusinessResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *ResponseRepository) GetByReviewID(ctx context.Context, reviewID uuid.UUID) (*domain.BusinessResponse, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessResponse), args.Error(1)
}

// VoteRepository mocks domain.VoteRepository
type VoteRepository struct {
	mock.Mock
}

func (m *VoteRepository) Upsert(ctx context.Context, vote *domain.HelpfulVote) (bool, error) {
	args := m.Called(ctx, vote)
	return args.Bool(0), args.Error(1)
}

// StatsRepository mocks domain.StatsRepository
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) ProductStats(ctx context.Context, productID int64) (*domain.ProductStats, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductStats), args.Error(1)
}

// StatsCache mocks the product stats cache
type StatsCache struct {
	mock.Mock
}

func (m *StatsCache) GetProductStats(ctx context.Context, productID int64) (*domain.ProductStats, int64, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*domain.ProductStats), args.Get(1).(int64), args.Error(2)
}

func (m *StatsCache) SetProductStats(ctx context.Context, stats *domain.ProductStats, generation int64) error {
	args := m.Called(ctx, stats, generation)
	return args.Error(0)
}

func (m *StatsCache) InvalidateProductStats(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}
