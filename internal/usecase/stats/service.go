package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

// Cache stores computed product statistics. A miss reports the cache
// generation, and SetProductStats drops the fill if the product was
// invalidated since that generation was read.
type Cache interface {
	GetProductStats(ctx context.Context, productID int64) (*domain.ProductStats, int64, error)
	SetProductStats(ctx context.Context, stats *domain.ProductStats, generation int64) error
}

// Service computes per-product review statistics with a read-through cache
type Service struct {
	repo   domain.StatsRepository
	cache  Cache
	logger *logger.Logger
}

// NewService creates a new stats service
func NewService(repo domain.StatsRepository, cache Cache, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// ProductStats aggregates the approved reviews of a product. A zero
// productID means none was supplied.
func (s *Service) ProductStats(ctx context.Context, productID int64) (*domain.ProductStats, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id", domain.ErrMissingParameter)
	}
	if productID < 0 {
		return nil, domain.NewValidationError("product_id", "must be a positive integer")
	}

	cached, generation, err := s.cache.GetProductStats(ctx, productID)
	if err == nil {
		s.logger.Debugf("Cache hit for product %d stats", productID)
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warnf("Failed to read stats cache for product %d: %v", productID, err)
	}

	stats, err := s.repo.ProductStats(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to aggregate product stats", err)
		return nil, err
	}

	if err := s.cache.SetProductStats(ctx, stats, generation); err != nil {
		s.logger.Warnf("Failed to cache stats for product %d: %v", productID, err)
	}

	return stats, nil
}
