package handler

import (
	"errors"
	"net/http"

	"github.com/vacae/vacae-backend/internal/api/response"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// writeServiceError translates service-layer errors into problem responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var plannerErr *planner.ValidationError
	if errors.As(err, &plannerErr) {
		response.BadRequest(w, r, "invalid request", plannerErr.Errors)
		return
	}
	var preferenceErr *preference.ValidationError
	if errors.As(err, &preferenceErr) {
		response.BadRequest(w, r, "invalid request", preferenceErr.Errors)
		return
	}
	var feedbackErr *feedback.ValidationError
	if errors.As(err, &feedbackErr) {
		response.BadRequest(w, r, "invalid request", feedbackErr.Errors)
		return
	}

	switch {
	case errors.Is(err, itinerary.ErrItineraryNotFound):
		response.NotFound(w, r, "itinerary not found")
	case errors.Is(err, preference.ErrProfileNotFound):
		response.NotFound(w, r, "preference profile not found")
	case errors.Is(err, recommendation.ErrAllDestinationsRemoved),
		errors.Is(err, recommendation.ErrInvalidWindow),
		errors.Is(err, recommendation.ErrMissingStartLocation):
		response.BadRequest(w, r, err.Error(), nil)
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
