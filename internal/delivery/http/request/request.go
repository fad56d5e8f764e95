package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1MB

// multipartOverhead leaves room for boundaries and part headers around an upload
const multipartOverhead = 64 << 10

// DecodeJSON decodes JSON request body into the provided struct with size limit
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	limitedReader := io.LimitReader(r.Body, maxRequestBodySize)

	if err := json.NewDecoder(limitedReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// GetUUIDParam extracts a UUID parameter from the URL
func GetUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return uuid.Nil, fmt.Errorf("missing parameter: %s", key)
	}

	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}

	return id, nil
}

// GetIntQuery extracts an integer query parameter with a default value
func GetIntQuery(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// GetPaginationParams extracts and validates pagination parameters
func GetPaginationParams(r *http.Request) (limit, offset int) {
	limit = GetIntQuery(r, "limit", 20)
	offset = GetIntQuery(r, "offset", 0)

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// GetProductID reads the required product_id query parameter
func GetProductID(r *http.Request) (int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get("product_id"))
	if value == "" {
		return 0, fmt.Errorf("%w: product_id", domain.ErrMissingParameter)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("product_id", "must be an integer")
	}
	if id <= 0 {
		return 0, domain.NewValidationError("product_id", "must be a positive integer")
	}

	return id, nil
}

// ParseReviewFilter builds a public listing filter from query parameters.
// Malformed integers are rejected; unknown boolean and ordering values are ignored.
func ParseReviewFilter(r *http.Request) (domain.ReviewFilter, error) {
	q := r.URL.Query()
	filter := domain.ReviewFilter{
		Search: strings.TrimSpace(q.Get("search")),
	}
	filter.Limit, filter.Offset = GetPaginationParams(r)
	filter.Ordering, _ = domain.ParseOrdering(q.Get("ordering"))

	if v := q.Get("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, domain.NewValidationError("product_id", "must be an integer")
		}
		filter.ProductID = &id
	}

	if v := q.Get("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			return filter, domain.NewValidationError("rating", "must be an integer")
		}
		filter.Rating = &rating
	}

	switch strings.ToLower(q.Get("verified_purchase")) {
	case "true":
		verified := true
		filter.VerifiedPurchase = &verified
	case "false":
		verified := false
		filter.VerifiedPurchase = &verified
	}

	return filter, nil
}

// ParseStatus reads the optional status query parameter. A missing value
// yields nil, which matches reviews in any state.
func ParseStatus(r *http.Request) (*domain.ReviewStatus, error) {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if value == "" {
		return nil, nil
	}

	status := domain.ReviewStatus(value)
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be pending, approved or rejected")
	}

	return &status, nil
}

// ReadImage reads the multipart "image" field, refusing bodies larger than maxBytes.
func ReadImage(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.NewValidationError("image", fmt.Sprintf("size must be at most %d bytes", maxBytes))
		}
		return nil, domain.NewValidationError("image", "is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}
