package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/domain/mocks"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	"github.com/Pesokrava/review_moderation/internal/usecase/review"
)

type reviewFixture struct {
	reviews   *mocks.ReviewRepository
	images    *mocks.ImageRepository
	votes     *mocks.VoteRepository
	responses *mocks.ResponseRepository
	cache     *mocks.StatsCache
	handler   *ReviewHandler
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews:   new(mocks.ReviewRepository),
		images:    new(mocks.ImageRepository),
		votes:     new(mocks.VoteRepository),
		responses: new(mocks.ResponseRepository),
		cache:     new(mocks.StatsCache),
	}
	log := logger.New("test")
	service := review.NewService(f.reviews, f.images, f.votes, f.responses, f.cache, review.DefaultImageLimits(), log)
	f.handler = NewReviewHandler(service, log)
	return f
}

func approvedReview(id uuid.UUID) *domain.Review {
	return &domain.Review{
		ID:            id,
		ProductID:     42,
		CustomerEmail: "ann@example.com",
		CustomerName:  "Ann",
		Rating:        5,
		Title:         "Great blender for smoothies",
		Status:        domain.StatusApproved,
	}
}

func TestReviewHandler_Create_Success(t *testing.T) {
	f := newReviewFixture()
	id := uuid.New()

	body := jsonBody(t, CreateReviewRequest{
		ProductID:     42,
		CustomerEmail: "Ann@Example.com",
		CustomerName:  "Ann",
		Rating:        5,
		Title:         "Great blender for smoothies",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/create/", body)
	w := httptest.NewRecorder()

	f.reviews.On("ExistsForCustomer", mock.Anything, int64(42), "ann@example.com").Return(false, nil)
	f.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Status == domain.StatusPending && r.CustomerEmail == "ann@example.com"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Review).ID = id
	}).Return(nil)

	f.handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	out := decodeBody(t, w.Body)
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out["message"], "after moderation")
	data := out["data"].(map[string]any)
	assert.Equal(t, id.String(), data["id"])
	assert.Equal(t, "pending", data["status"])
	f.reviews.AssertExpectations(t)
}

func TestReviewHandler_Create_ValidationErrors(t *testing.T) {
	comment := strings.Repeat("x", 2001)

	tests := []struct {
		name  string
		req   CreateReviewRequest
		field string
	}{
		{
			name:  "short title",
			req:   CreateReviewRequest{ProductID: 1, CustomerEmail: "a@b.co", CustomerName: "A", Rating: 4, Title: "Too short"},
			field: "title",
		},
		{
			name:  "rating above range",
			req:   CreateReviewRequest{ProductID: 1, CustomerEmail: "a@b.co", CustomerName: "A", Rating: 6, Title: "Long enough title"},
			field: "rating",
		},
		{
			name:  "comment too long",
			req:   CreateReviewRequest{ProductID: 1, CustomerEmail: "a@b.co", CustomerName: "A", Rating: 4, Title: "Long enough title", Comment: &comment},
			field: "comment",
		},
		{
			name:  "bad email",
			req:   CreateReviewRequest{ProductID: 1, CustomerEmail: "nope", CustomerName: "A", Rating: 4, Title: "Long enough title"},
			field: "customer_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/create", jsonBody(t, tt.req))
			w := httptest.NewRecorder()

			f.handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			fields := decodeBody(t, w.Body)["fields"].(map[string]any)
			assert.Contains(t, fields, tt.field)
			f.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewHandler_Create_Duplicate(t *testing.T) {
	f := newReviewFixture()
	body := jsonBody(t, CreateReviewRequest{
		ProductID: 42, CustomerEmail: "ann@example.com", CustomerName: "Ann", Rating: 3, Title: "Second opinion here",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/create", body)
	w := httptest.NewRecorder()

	f.reviews.On("ExistsForCustomer", mock.Anything, int64(42), "ann@example.com").Return(true, nil)

	f.handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "You have already reviewed this product", decodeBody(t, w.Body)["error"])
}

func TestReviewHandler_Create_InvalidJSON(t *testing.T) {
	f := newReviewFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/create", strings.NewReader("{"))
	w := httptest.NewRecorder()

	f.handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_List_Filters(t *testing.T) {
	f := newReviewFixture()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/reviews?product_id=42&rating=5&verified_purchase=true&search=Blender&ordering=-rating&limit=10&offset=5", nil)
	w := httptest.NewRecorder()

	views := []*domain.ReviewView{{ID: uuid.New(), ProductID: 42, Rating: 5, HelpfulCount: 2}}
	f.reviews.On("ListPublic", mock.Anything, mock.MatchedBy(func(filter domain.ReviewFilter) bool {
		return *filter.ProductID == 42 && *filter.Rating == 5 && *filter.VerifiedPurchase &&
			filter.Search == "Blender" && filter.Ordering == domain.OrderRatingDesc &&
			filter.Limit == 10 && filter.Offset == 5
	})).Return(views, 11, nil)

	f.handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	out := decodeBody(t, w.Body)
	assert.Len(t, out["data"], 1)
	assert.Equal(t, map[string]any{"total": float64(11), "limit": float64(10), "offset": float64(5)}, out["pagination"])
}

func TestReviewHandler_List_LenientParams(t *testing.T) {
	f := newReviewFixture()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?verified_purchase=maybe&ordering=title", nil)
	w := httptest.NewRecorder()

	f.reviews.On("ListPublic", mock.Anything, mock.MatchedBy(func(filter domain.ReviewFilter) bool {
		return filter.VerifiedPurchase == nil && filter.Ordering == domain.OrderCreatedAtDesc && filter.Limit == 20
	})).Return([]*domain.ReviewView{}, 0, nil)

	f.handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	f.reviews.AssertExpectations(t)
}

func TestReviewHandler_List_InvalidRating(t *testing.T) {
	f := newReviewFixture()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?rating=five", nil)
	w := httptest.NewRecorder()

	f.handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.reviews.AssertNotCalled(t, "ListPublic", mock.Anything, mock.Anything)
}

func TestReviewHandler_Get(t *testing.T) {
	f := newReviewFixture()
	id := uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+id.String(), nil), map[string]string{"id": id.String()})
	w := httptest.NewRecorder()

	f.reviews.On("GetPublicByID", mock.Anything, id).Return(&domain.ReviewView{ID: id, Rating: 4, HasResponse: true}, nil)
	f.responses.On("GetByReviewID", mock.Anything, id).Return(&domain.BusinessResponse{ReviewID: id, ResponseText: "Thank you for the feedback!"}, nil)

	f.handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w.Body)["data"].(map[string]any)
	assert.Equal(t, id.String(), data["id"])
	assert.NotNil(t, data["business_response"])
	assert.Empty(t, data["images"])
}

func TestReviewHandler_Get_NotApproved(t *testing.T) {
	f := newReviewFixture()
	id := uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()})
	w := httptest.NewRecorder()

	f.reviews.On("GetPublicByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	f.handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review not found", decodeBody(t, w.Body)["error"])
}

func TestReviewHandler_Get_InvalidID(t *testing.T) {
	f := newReviewFixture()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	w := httptest.NewRecorder()

	f.handler.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_UploadImage_Success(t *testing.T) {
	f := newReviewFixture()
	id := uuid.New()
	body, contentType := multipartImage(t, "image", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	req = withURLParams(req, map[string]string{"id": id.String()})
	w := httptest.NewRecorder()

	f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
	f.images.On("Attach", mock.Anything, mock.MatchedBy(func(img *domain.ReviewImage) bool {
		return img.ContentType == "image/png" && img.SizeBytes == int64(len(pngBytes))
	}), domain.MaxImagesPerReview).Return(nil)
	f.cache.On("InvalidateProductStats", mock.Anything, int64(42)).Return(nil)

	f.handler.UploadImage(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w.Body)["data"].(map[string]any)
	assert.Equal(t, "image/png", data["content_type"])
	assert.NotContains(t, data, "data")
	f.images.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestReviewHandler_UploadImage_Rejected(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		field      string
		data       []byte
		attachErr  error
		wantStatus int
	}{
		{name: "unsupported type", field: "image", data: gifBytes, wantStatus: http.StatusBadRequest},
		{name: "missing field", field: "photo", data: pngBytes, wantStatus: http.StatusBadRequest},
		{name: "too large", field: "image", data: append(append([]byte{}, pngBytes...), make([]byte, domain.MaxImageBytes)...), wantStatus: http.StatusBadRequest},
		{name: "sixth image", field: "image", data: pngBytes, attachErr: fmt.Errorf("%w: review already has 5 images", domain.ErrConflict), wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			body, contentType := multipartImage(t, tt.field, tt.data)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)
			req = withURLParams(req, map[string]string{"id": id.String()})
			w := httptest.NewRecorder()

			if tt.attachErr != nil {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
				f.images.On("Attach", mock.Anything, mock.Anything, domain.MaxImagesPerReview).Return(tt.attachErr)
			}

			f.handler.UploadImage(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.attachErr == nil {
				f.images.AssertNotCalled(t, "Attach", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReviewHandler_GetImage(t *testing.T) {
	f := newReviewFixture()
	reviewID, imageID := uuid.New(), uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"id":      reviewID.String(),
		"imageID": imageID.String(),
	})
	w := httptest.NewRecorder()

	f.reviews.On("GetPublicByID", mock.Anything, reviewID).Return(&domain.ReviewView{ID: reviewID}, nil)
	f.images.On("Get", mock.Anything, reviewID, imageID).Return(&domain.ReviewImage{
		ID: imageID, ReviewID: reviewID, ContentType: "image/png", Data: pngBytes,
	}, nil)

	f.handler.GetImage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())
}

func TestReviewHandler_Vote(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(f *reviewFixture)
		wantStatus int
	}{
		{
			name: "recorded",
			body: `{"voter_email":"Bob@Example.com","is_helpful":true}`,
			setup: func(f *reviewFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
				f.votes.On("Upsert", mock.Anything, mock.MatchedBy(func(v *domain.HelpfulVote) bool {
					return v.VoterEmail == "bob@example.com" && v.IsHelpful
				})).Return(true, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "self vote",
			body: `{"voter_email":"ANN@example.com","is_helpful":true}`,
			setup: func(f *reviewFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "pending review",
			body: `{"voter_email":"bob@example.com","is_helpful":false}`,
			setup: func(f *reviewFixture) {
				pending := approvedReview(id)
				pending.Status = domain.StatusPending
				f.reviews.On("GetByID", mock.Anything, id).Return(pending, nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing is_helpful",
			body:       `{"voter_email":"bob@example.com"}`,
			setup:      func(f *reviewFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"voter_email":"bob","is_helpful":true}`,
			setup:      func(f *reviewFixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture()
			tt.setup(f)
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), map[string]string{"id": id.String()})
			w := httptest.NewRecorder()

			f.handler.Vote(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				f.votes.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			}
		})
	}
}
