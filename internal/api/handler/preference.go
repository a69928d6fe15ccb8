package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/api/response"
	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// PreferenceHandler handles preference endpoints.
type PreferenceHandler struct {
	preferences *preference.Service
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferenceService *preference.Service) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferenceService}
}

// GetPreferences handles GET /v1/preferences - the user's stated and learned
// profiles. Either may be absent; a missing upstream profile service is not
// an error for the learned half.
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var result models.PreferenceResponse

	stated, err := h.preferences.Get(r.Context(), userID)
	switch {
	case err == nil:
		result.Stated = toAPIProfile(stated)
	case errors.Is(err, preference.ErrProfileNotFound):
	default:
		response.ServiceUnavailable(w, r, "profile service unavailable")
		return
	}

	learned, err := h.preferences.GetLearned(r.Context(), userID)
	switch {
	case err == nil:
		result.Learned = toAPIProfile(learned)
	case errors.Is(err, preference.ErrProfileNotFound):
	default:
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// UpdatePreferences handles PUT /v1/preferences - allow-listed partial
// update of the stated profile.
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input preference.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.preferences.Update(r.Context(), userID, &input)
	if err != nil {
		var vErr *preference.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, r, "invalid request", vErr.Errors)
			return
		}
		response.ServiceUnavailable(w, r, "profile service unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIProfile(updated))
}

func toAPIProfile(p recommendation.PreferenceProfile) *models.PreferenceProfile {
	profile := &models.PreferenceProfile{
		Categories:         fromCategories(p.Categories),
		CostLevel:          p.CostLevel,
		ActivityLevel:      string(p.ActivityLevel),
		ExcludedActivities: fromCategories(p.ExcludedActivities),
		UpdatedAt:          models.Timestamp(p.UpdatedAt),
	}
	for _, m := range p.PreferredTransportation {
		profile.PreferredTransportation = append(profile.PreferredTransportation, models.TransportMode(m))
	}
	if p.Schedule != (recommendation.DaySchedule{}) {
		profile.Schedule = &models.DaySchedule{
			MorningStart: p.Schedule.MorningStart,
			EveningEnd:   p.Schedule.EveningEnd,
		}
	}
	return profile
}
