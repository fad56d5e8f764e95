package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/domain/mocks"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/usecase/stats"
)

func newStatsHandler() (*StatsHandler, *mocks.StatsRepository, *mocks.StatsCache) {
	repo := new(mocks.StatsRepository)
	cache := new(mocks.StatsCache)
	log := logger.New("test")
	return NewStatsHandler(stats.NewService(repo, cache, log), log), repo, cache
}

func TestStatsHandler_Get(t *testing.T) {
	h, repo, cache := newStatsHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/stats?product_id=7", nil)
	w := httptest.NewRecorder()

	avg := 4.25
	result := &domain.ProductStats{
		ProductID:          7,
		TotalReviews:       4,
		AverageRating:      &avg,
		RatingDistribution: map[int]int{5: 2, 4: 1, 3: 1},
	}
	cache.On("GetProductStats", mock.Anything, int64(7)).Return(nil, int64(0), domain.ErrNotFound)
	repo.On("ProductStats", mock.Anything, int64(7)).Return(result, nil)
	cache.On("SetProductStats", mock.Anything, result, int64(0)).Return(nil)

	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w.Body)["data"].(map[string]any)
	assert.Equal(t, 4.25, data["average_rating"])
	assert.Equal(t, map[string]any{"5": float64(2), "4": float64(1), "3": float64(1)}, data["rating_distribution"])
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestStatsHandler_Get_BadProductID(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{name: "missing", query: "", message: "product_id is required"},
		{name: "not an integer", query: "?product_id=abc", message: "Validation failed"},
		{name: "zero", query: "?product_id=0", message: "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, _ := newStatsHandler()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/stats"+tt.query, nil)
			w := httptest.NewRecorder()

			h.Get(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decodeBody(t, w.Body)["error"])
			repo.AssertNotCalled(t, "ProductStats", mock.Anything, mock.Anything)
		})
	}
}
