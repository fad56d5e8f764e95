package handler

import (
	"net/http"

	"github.com/Pesokrava/review_moderation/internal/delivery/http/request"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/usecase/review"
)

const reviewNotFound = "Review not found"

// ReviewHandler handles customer-facing HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for submitting a review
type CreateReviewRequest struct {
	ProductID          int64   `json:"product_id"`
	CustomerEmail      string  `json:"customer_email"`
	CustomerName       string  `json:"customer_name"`
	Rating             int     `json:"rating"`
	Title              string  `json:"title"`
	Comment            *string `json:"comment,omitempty"`
	IsVerifiedPurchase bool    `json:"is_verified_purchase"`
}

// VoteRequest represents the request body for a helpfulness vote
type VoteRequest struct {
	VoterEmail string `json:"voter_email"`
	IsHelpful  *bool  `json:"is_helpful"`
}

// List handles GET /api/v1/reviews
// @Summary List approved reviews
// @Description Paginated list of approved reviews with vote counts, filterable by product, rating, verified purchase and free text.
// @Tags Reviews
// @Produce json
// @Param product_id query int false "Product ID"
// @Param rating query int false "Exact star rating"
// @Param verified_purchase query bool false "Only verified (true) or unverified (false) purchases"
// @Param search query string false "Case-insensitive match on title, comment or customer name"
// @Param ordering query string false "created_at, -created_at, rating or -rating" default(-created_at)
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of reviews"
// @Failure 400 {object} map[string]string "Invalid query parameter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseReviewFilter(r)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	reviews, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Paginated(w, reviews, total, filter.Limit, filter.Offset)
}

// Get handles GET /api/v1/reviews/:id
// @Summary Get an approved review
// @Description Returns an approved review with its image metadata and business response.
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} map[string]interface{} "Review detail"
// @Failure 400 {object} map[string]string "Invalid review ID"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Success(w, detail)
}

// Create handles POST /api/v1/reviews/create
// @Summary Submit a review
// @Description Submit a review for a product. New reviews are pending until a moderator approves them.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param review body CreateReviewRequest true "Review details"
// @Success 201 {object} map[string]interface{} "Review submitted"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 409 {object} map[string]string "Customer already reviewed this product"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews/create [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review := &domain.Review{
		ProductID:          req.ProductID,
		CustomerEmail:      req.CustomerEmail,
		CustomerName:       req.CustomerName,
		Rating:             req.Rating,
		Title:              req.Title,
		Comment:            req.Comment,
		IsVerifiedPurchase: req.IsVerifiedPurchase,
	}

	if err := h.service.Submit(r.Context(), review); err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Review submitted successfully. It will be visible after moderation.",
		"data":    review,
	})
}

// UploadImage handles POST /api/v1/reviews/:id/images
// @Summary Attach an image to a review
// @Description Upload a JPEG or PNG image (max 5MB) as multipart field "image". A review holds at most 5 images.
// @Tags Reviews
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param image formData file true "JPEG or PNG image"
// @Success 201 {object} map[string]interface{} "Image uploaded"
// @Failure 400 {object} map[string]interface{} "Invalid image"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Image limit reached"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews/{id}/images [post]
func (h *ReviewHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	data, err := request.ReadImage(w, r, h.service.Limits().MaxBytes)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	image, err := h.service.AttachImage(r.Context(), id, data)
	if err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Created(w, image)
}

// GetImage handles GET /api/v1/reviews/:id/images/:imageID
// @Summary Download a review image
// @Description Returns the raw image bytes of an approved review.
// @Tags Reviews
// @Produce png
// @Produce jpeg
// @Param id path string true "Review ID (UUID)"
// @Param imageID path string true "Image ID (UUID)"
// @Success 200 {file} binary "Image"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Image not found"
// @Router /reviews/{id}/images/{imageID} [get]
func (h *ReviewHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	reviewID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}
	imageID, err := request.GetUUIDParam(r, "imageID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	image, err := h.service.GetImage(r.Context(), reviewID, imageID)
	if err != nil {
		writeError(w, h.logger, err, "Image not found")
		return
	}

	response.Binary(w, image.ContentType, image.Data)
}

// Vote handles POST /api/v1/reviews/:id/vote
// @Summary Vote on review helpfulness
// @Description Records whether a review was helpful. Voting again replaces the earlier vote; authors cannot vote on their own review.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param vote body VoteRequest true "Vote"
// @Success 200 {object} map[string]interface{} "Vote recorded"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Cannot vote on own review"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews/{id}/vote [post]
func (h *ReviewHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req VoteRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IsHelpful == nil {
		response.ValidationError(w, "Validation failed", map[string]string{"is_helpful": "is required"})
		return
	}

	vote := &domain.HelpfulVote{
		ReviewID:   id,
		VoterEmail: req.VoterEmail,
		IsHelpful:  *req.IsHelpful,
	}

	if err := h.service.Vote(r.Context(), vote); err != nil {
		writeError(w, h.logger, err, reviewNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Vote recorded successfully")
}
