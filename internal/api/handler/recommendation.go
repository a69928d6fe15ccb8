// Package handler provides HTTP handlers for the Vacae API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/api/response"
	"github.com/vacae/vacae-backend/internal/planner"
)

// RecommendationHandler handles recommendation endpoints.
type RecommendationHandler struct {
	planner *planner.Service
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(plannerService *planner.Service) *RecommendationHandler {
	return &RecommendationHandler{planner: plannerService}
}

// Generate handles POST /v1/recommendations/generate - score candidates and
// build a persisted itinerary.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.GenerateRecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateGenerateRequest(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid request", fieldErrors)
		return
	}

	result, err := h.planner.Generate(r.Context(), userID, planner.GenerateInput{
		Candidates: toSelector(input.DestinationIDs, input.Location, input.RadiusKm),
		Window:     toWindow(*input.Window),
		Start:      toGeoPoint(*input.StartLocation),
		Mode:       toTransportMode(input.TransportMode),
		Context:    toContext(input.Context),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	built := toAPIItinerary(result.Record)
	response.JSON(w, r, http.StatusOK, models.RecommendationsResponse{
		Results:   toAPIScored(result.Scored),
		Itinerary: &built,
	})
}

// Score handles POST /v1/recommendations/score - return the ranked candidate
// list without building an itinerary.
func (h *RecommendationHandler) Score(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	scored, err := h.planner.Score(r.Context(), userID,
		toSelector(input.DestinationIDs, input.Location, input.RadiusKm),
		toContext(input.Context),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ScoreResponse{Results: toAPIScored(scored)})
}

func validateGenerateRequest(input *models.GenerateRecommendationsRequest) []models.FieldError {
	var fieldErrors []models.FieldError

	if input.Window == nil {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "window",
			Message: "window is required",
		})
	} else if !input.Window.End.Time().After(input.Window.Start.Time()) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "window",
			Message: "window end must be after start",
		})
	}

	if input.StartLocation == nil {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "startLocation",
			Message: "startLocation is required",
		})
	}

	switch input.TransportMode {
	case "", models.TransportWalking, models.TransportTransit, models.TransportDriving:
	default:
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "transportMode",
			Message: "transportMode must be one of: walking, transit, driving",
		})
	}

	return fieldErrors
}
