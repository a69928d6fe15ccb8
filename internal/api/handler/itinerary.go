package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/api/response"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// ItineraryHandler handles itinerary endpoints.
type ItineraryHandler struct {
	planner     *planner.Service
	itineraries *itinerary.Service
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(plannerService *planner.Service, itineraryService *itinerary.Service) *ItineraryHandler {
	return &ItineraryHandler{planner: plannerService, itineraries: itineraryService}
}

// ListItineraries handles GET /v1/itineraries - list the user's itineraries.
func (h *ItineraryHandler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	records, err := h.itineraries.List(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]models.Itinerary, 0, len(records))
	for _, record := range records {
		items = append(items, toAPIItinerary(record))
	}

	response.JSON(w, r, http.StatusOK, models.PagedItineraries{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	})
}

// GetItinerary handles GET /v1/itineraries/{itineraryId}.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itineraryID := chi.URLParam(r, "itineraryId")

	record, err := h.itineraries.Get(r.Context(), userID, itineraryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIItinerary(record))
}

// RefineItinerary handles POST /v1/itineraries/{itineraryId}/refine -
// rebuild a stored itinerary without the removed destinations. The result is
// persisted as a new itinerary.
func (h *ItineraryHandler) RefineItinerary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itineraryID := chi.URLParam(r, "itineraryId")

	var input models.RefineItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	refineInput := planner.RefineInput{RemoveDestinationIDs: input.RemoveDestinationIDs}
	if input.Window != nil {
		window := recommendation.Window{
			Start: input.Window.Start.Time(),
			End:   input.Window.End.Time(),
		}
		if !window.Valid() {
			response.BadRequest(w, r, "window end must be after start", nil)
			return
		}
		refineInput.Window = &window
	}

	record, err := h.planner.Refine(r.Context(), userID, itineraryID, refineInput)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/itineraries/"+record.Itinerary.ID, toAPIItinerary(record))
}
