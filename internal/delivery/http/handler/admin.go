package handler

import (
	"net/http"

	"github.com/Pesokrava/review_moderation/internal/delivery/http/middleware"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/request"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/usecase/moderation"
)

// AdminHandler handles moderator HTTP requests
type AdminHandler struct {
	service *moderation.Service
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *moderation.Service, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  log,
	}
}

// ModerateRequest represents the request body for approving or rejecting a review
type ModerateRequest struct {
	Status string `json:"status" example:"approved"`
}

// RespondRequest represents the request body for a business response
type RespondRequest struct {
	ResponseText  string `json:"response_text"`
	ResponderName string `json:"responder_name"`
}

// List handles GET /api/v1/admin/reviews
// @Summary List reviews for moderation
// @Description Paginated list of reviews in any state, including customer emails. Search matches title, comment and customer email.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected; omitted for all states"
// @Param rating query int false "Exact star rating"
// @Param verified_purchase query bool false "Only verified (true) or unverified (false) purchases"
// @Param search query string false "Case-insensitive match on title, comment or customer email"
// @Param ordering query string false "created_at, -created_at, rating or -rating" default(-created_at)
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of reviews"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	status, err := request.ParseStatus(r)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	filter, err := request.ParseReviewFilter(r)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	reviews, total, err := h.service.List(r.Context(), status, filter)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Paginated(w, reviews, total, filter.Limit, filter.Offset)
}

// ListPending handles GET /api/v1/admin/reviews/pending
// @Summary List pending reviews
// @Description Paginated list of reviews awaiting moderation, newest first.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of pending reviews"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/pending [get]
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	reviews, total, err := h.service.ListPending(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Paginated(w, reviews, total, limit, offset)
}

// Moderate handles PATCH /api/v1/admin/reviews/:id/moderate
// @Summary Approve or reject a review
// @Description Sets the review status to approved or rejected. Already moderated reviews may be moderated again.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID (UUID)"
// @Param moderation body ModerateRequest true "Target status"
// @Success 200 {object} map[string]interface{} "Review moderated"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/{id}/moderate [patch]
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req ModerateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.service.Moderate(r.Context(), id, domain.ReviewStatus(req.Status))
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	h.audit(r, "moderate", review)

	response.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Review " + string(review.Status) + " successfully",
		"data":    review,
	})
}

// Respond handles POST /api/v1/admin/reviews/:id/respond
// @Summary Respond to a review
// @Description Adds the single business response to an approved review.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID (UUID)"
// @Param response body RespondRequest true "Response"
// @Success 201 {object} map[string]interface{} "Response created"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Review not found or not approved"
// @Failure 409 {object} map[string]string "Response already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/{id}/respond [post]
func (h *AdminHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req RespondRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := &domain.BusinessResponse{
		ReviewID:      id,
		ResponseText:  req.ResponseText,
		ResponderName: req.ResponderName,
	}

	if err := h.service.Respond(r.Context(), resp); err != nil {
		writeError(w, h.logger, err, "Review not found or not approved")
		return
	}

	response.Created(w, resp)
}

// Delete handles DELETE /api/v1/admin/reviews/:id
// @Summary Soft-delete a review
// @Description Hides a review by marking it rejected. The row and its children are kept.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} map[string]interface{} "Review deleted"
// @Failure 400 {object} map[string]string "Invalid review ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/reviews/{id} [delete]
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	review, err := h.service.SoftDelete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	h.audit(r, "soft_delete", review)

	response.Message(w, http.StatusOK, "Review deleted successfully")
}

func (h *AdminHandler) audit(r *http.Request, action string, review *domain.Review) {
	moderator, _ := middleware.ModeratorFromContext(r.Context())
	h.logger.WithFields(map[string]any{
		"action":    action,
		"moderator": moderator,
		"review_id": review.ID,
		"status":    review.Status,
	}).Info("Moderator action")
}
