package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/domain"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

// writeError maps service errors onto HTTP responses. notFound is the
// message used for domain.ErrNotFound.
func writeError(w http.ResponseWriter, log *logger.Logger, err error, notFound string) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		response.ValidationError(w, "Validation failed", validationErr.Fields)
	case errors.Is(err, domain.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, "Status must be either approved or rejected")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrMissingParameter):
		response.Error(w, http.StatusBadRequest, detail(err, domain.ErrMissingParameter, "required parameter")+" is required")
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Response already exists for this review")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, capitalize(detail(err, domain.ErrConflict, "conflict")))
	case errors.Is(err, domain.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
	default:
		log.Error("Unhandled service error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// detail returns the text wrapped around sentinel, or fallback when err is the bare sentinel
func detail(err, sentinel error, fallback string) string {
	msg, found := strings.CutPrefix(err.Error(), sentinel.Error()+": ")
	if !found {
		return fallback
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
