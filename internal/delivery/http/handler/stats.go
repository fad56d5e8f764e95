package handler

import (
	"net/http"

	"github.com/Pesokrava/review_moderation/internal/delivery/http/request"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/usecase/stats"
)

// StatsHandler serves aggregate review statistics
type StatsHandler struct {
	service *stats.Service
	logger  *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *stats.Service, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  log,
	}
}

// Get handles GET /api/v1/reviews/stats
// @Summary Product review statistics
// @Description Aggregates over the approved reviews of a product: count, average, rating distribution and feature counts. Results are cached.
// @Tags Reviews
// @Produce json
// @Param product_id query int true "Product ID"
// @Success 200 {object} map[string]interface{} "Product statistics"
// @Failure 400 {object} map[string]string "Missing or invalid product_id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews/stats [get]
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetProductID(r)
	if err != nil {
		writeError(w, h.logger, err, "Product not found")
		return
	}

	result, err := h.service.ProductStats(r.Context(), productID)
	if err != nil {
		writeError(w, h.logger, err, "Product not found")
		return
	}

	response.Success(w, result)
}
