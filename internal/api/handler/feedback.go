package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/api/response"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// FeedbackHandler handles feedback endpoints.
type FeedbackHandler struct {
	planner  *planner.Service
	feedback *feedback.Service
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(plannerService *planner.Service, feedbackService *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{planner: plannerService, feedback: feedbackService}
}

// CreateFeedback handles POST /v1/feedback - record a feedback event and
// enqueue a preference-learning task.
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.FeedbackCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	record, err := h.planner.RecordFeedback(r.Context(), userID, feedback.RecordInput{
		DestinationID: input.DestinationID,
		ItineraryID:   input.ItineraryID,
		Outcome:       recommendation.Outcome(input.Outcome),
		Rating:        input.Rating,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, r, "", toAPIFeedback(record))
}

// ListFeedback handles GET /v1/feedback - the user's feedback, newest first.
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	opts := feedback.ListOptions{Limit: 50}
	if v := r.URL.Query().Get("outcome"); v != "" {
		opts.Outcome = recommendation.Outcome(v)
	}

	records, err := h.feedback.List(r.Context(), userID, opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]models.Feedback, 0, len(records))
	for _, record := range records {
		items = append(items, toAPIFeedback(record))
	}

	response.JSON(w, r, http.StatusOK, items)
}

func toAPIFeedback(record *feedback.Record) models.Feedback {
	return models.Feedback{
		ID:            record.ID,
		DestinationID: record.DestinationID,
		ItineraryID:   record.ItineraryID,
		Outcome:       string(record.Outcome),
		Rating:        record.Rating,
		CreatedAt:     models.Timestamp(record.CreatedAt),
	}
}
