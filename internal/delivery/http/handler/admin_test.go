package handler

import (
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
	"github.com/Pesokrava/review_moderation/internal/usecase/moderation"
)

type adminFixture struct {
	reviews   *mocks.ReviewRepository
	responses *mocks.ResponseRepository
	cache     *mocks.StatsCache
	handler   *AdminHandler
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		reviews:   new(mocks.ReviewRepository),
		responses: new(mocks.ResponseRepository),
		cache:     new(mocks.StatsCache),
	}
	log := logger.New("test")
	f.handler = NewAdminHandler(moderation.NewService(f.reviews, f.responses, f.cache, log), log)
	return f
}

func TestAdminHandler_ListPending(t *testing.T) {
	f := newAdminFixture()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/pending?limit=500", nil)
	w := httptest.NewRecorder()

	pending := []*domain.Review{{ID: uuid.New(), Status: domain.StatusPending}}
	status := domain.StatusPending
	f.reviews.On("List", mock.Anything, &status, domain.ReviewFilter{Ordering: domain.OrderCreatedAtDesc, Limit: 20}).
		Return(pending, 1, nil)

	f.handler.ListPending(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	out := decodeBody(t, w.Body)
	assert.Len(t, out["data"], 1)
	assert.Equal(t, float64(1), out["pagination"].(map[string]any)["total"])
}

func TestAdminHandler_List(t *testing.T) {
	verified := true
	rating := 5
	approved := domain.StatusApproved

	tests := []struct {
		name       string
		query      string
		setup      func(f *adminFixture)
		wantStatus int
		wantField  string
		wantEmail  bool
	}{
		{
			name:  "all states",
			query: "",
			setup: func(f *adminFixture) {
				f.reviews.On("List", mock.Anything, (*domain.ReviewStatus)(nil), domain.ReviewFilter{
					Ordering: domain.OrderCreatedAtDesc,
					Limit:    20,
				}).Return([]*domain.Review{
					{ID: uuid.New(), CustomerEmail: "ann@example.com", Status: domain.StatusPending},
					{ID: uuid.New(), CustomerEmail: "bob@example.com", Status: domain.StatusRejected},
				}, 2, nil)
			},
			wantStatus: http.StatusOK,
			wantEmail:  true,
		},
		{
			name:  "status rating verified and search",
			query: "?status=Approved&rating=5&verified_purchase=true&search=%20bob%20&ordering=rating&limit=10&offset=10",
			setup: func(f *adminFixture) {
				f.reviews.On("List", mock.Anything, &approved, domain.ReviewFilter{
					Rating:           &rating,
					VerifiedPurchase: &verified,
					Search:           "bob",
					Ordering:         domain.OrderRatingAsc,
					Limit:            10,
					Offset:           10,
				}).Return([]*domain.Review{{ID: uuid.New(), CustomerEmail: "bob@example.com", Status: domain.StatusApproved}}, 11, nil)
			},
			wantStatus: http.StatusOK,
			wantEmail:  true,
		},
		{
			name:       "unknown status",
			query:      "?status=deleted",
			setup:      func(f *adminFixture) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "status",
		},
		{
			name:       "malformed rating",
			query:      "?rating=five",
			setup:      func(f *adminFixture) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			tt.setup(f)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews"+tt.query, nil)
			w := httptest.NewRecorder()

			f.handler.List(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				fields := decodeBody(t, w.Body)["fields"].(map[string]any)
				assert.Contains(t, fields, tt.wantField)
				f.reviews.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			if tt.wantEmail {
				assert.Contains(t, w.Body.String(), "customer_email")
			}
			f.reviews.AssertExpectations(t)
		})
	}
}

func TestAdminHandler_Moderate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(f *adminFixture)
		wantStatus int
		wantError  string
	}{
		{
			name: "approve pending",
			body: `{"status":"approved"}`,
			setup: func(f *adminFixture) {
				current := approvedReview(id)
				current.Status = domain.StatusPending
				updated := approvedReview(id)
				f.reviews.On("GetByID", mock.Anything, id).Return(current, nil)
				f.reviews.On("UpdateStatus", mock.Anything, id, domain.StatusApproved).Return(updated, nil)
				f.cache.On("InvalidateProductStats", mock.Anything, int64(42)).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "reject approved",
			body: `{"status":"rejected"}`,
			setup: func(f *adminFixture) {
				updated := approvedReview(id)
				updated.Status = domain.StatusRejected
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
				f.reviews.On("UpdateStatus", mock.Anything, id, domain.StatusRejected).Return(updated, nil)
				f.cache.On("InvalidateProductStats", mock.Anything, int64(42)).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid status",
			body: `{"status":"pending"}`,
			setup: func(f *adminFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Status must be either approved or rejected",
		},
		{
			name: "unknown review",
			body: `{"status":"approved"}`,
			setup: func(f *adminFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			tt.setup(f)
			req := withURLParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body)), map[string]string{"id": id.String()})
			w := httptest.NewRecorder()

			f.handler.Moderate(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody(t, w.Body)["error"])
			}
			f.reviews.AssertExpectations(t)
			f.cache.AssertExpectations(t)
		})
	}
}

func TestAdminHandler_Respond(t *testing.T) {
	id := uuid.New()
	validBody := `{"response_text":"Thanks for the detailed feedback, Ann!","responder_name":"Store Team"}`

	tests := []struct {
		name       string
		body       string
		setup      func(f *adminFixture)
		wantStatus int
	}{
		{
			name: "created",
			body: validBody,
			setup: func(f *adminFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
				f.responses.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BusinessResponse) bool {
					return r.ReviewID == id && r.ResponderName == "Store Team"
				})).Return(nil)
				f.cache.On("InvalidateProductStats", mock.Anything, int64(42)).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "already responded",
			body: validBody,
			setup: func(f *adminFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
				f.responses.On("Create", mock.Anything, mock.Anything).Return(domain.ErrAlreadyExists)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "pending review",
			body: validBody,
			setup: func(f *adminFixture) {
				pending := approvedReview(id)
				pending.Status = domain.StatusPending
				f.reviews.On("GetByID", mock.Anything, id).Return(pending, nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "text too short",
			body: `{"response_text":"Thanks!","responder_name":"Store Team"}`,
			setup: func(f *adminFixture) {
				f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			tt.setup(f)
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), map[string]string{"id": id.String()})
			w := httptest.NewRecorder()

			f.handler.Respond(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			f.responses.AssertExpectations(t)
		})
	}
}

func TestAdminHandler_Delete(t *testing.T) {
	f := newAdminFixture()
	id := uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": id.String()})
	w := httptest.NewRecorder()

	rejected := approvedReview(id)
	rejected.Status = domain.StatusRejected
	f.reviews.On("GetByID", mock.Anything, id).Return(approvedReview(id), nil)
	f.reviews.On("UpdateStatus", mock.Anything, id, domain.StatusRejected).Return(rejected, nil)
	f.cache.On("InvalidateProductStats", mock.Anything, int64(42)).Return(nil)

	f.handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Review deleted successfully", decodeBody(t, w.Body)["message"])
	f.reviews.AssertExpectations(t)
}
