package models

// TimeWindow bounds an itinerary to a start and end time.
type TimeWindow struct {
	Start Timestamp `json:"start" validate:"required"`
	End   Timestamp `json:"end" validate:"required"`
}

// EventInput is a caller-supplied local event for contextual scoring.
type EventInput struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      Point    `json:"location"`
	Categories    []string `json:"categories,omitempty"`
	DestinationID string   `json:"destinationId,omitempty"`
}

// ContextInput carries the situational inputs for a scoring call. Fields
// left empty are derived server-side from the date and window.
type ContextInput struct {
	Date                 *Timestamp   `json:"date,omitempty"`
	TimeOfDay            string       `json:"timeOfDay,omitempty" validate:"omitempty,oneof=morning afternoon evening"`
	Weather              string       `json:"weather,omitempty" validate:"omitempty,oneof=sunny cloudy rainy snowy"`
	Season               string       `json:"season,omitempty" validate:"omitempty,oneof=spring summer fall winter"`
	Events               []EventInput `json:"events,omitempty"`
	AvailableTimeMinutes int          `json:"availableTimeMinutes,omitempty"`
}

// GenerateRecommendationsRequest asks for a scored candidate list and a
// built itinerary. Candidates come from an explicit id list or a radius
// search around a location.
type GenerateRecommendationsRequest struct {
	DestinationIDs []string      `json:"destinationIds,omitempty"`
	Location       *Point        `json:"location,omitempty"`
	RadiusKm       float64       `json:"radiusKm,omitempty"`
	Window         *TimeWindow   `json:"window" validate:"required"`
	StartLocation  *Point        `json:"startLocation" validate:"required"`
	TransportMode  TransportMode `json:"transportMode,omitempty"`
	Context        *ContextInput `json:"context,omitempty"`
}

// ScoreRequest asks for the ranked candidate list only.
type ScoreRequest struct {
	DestinationIDs []string      `json:"destinationIds,omitempty"`
	Location       *Point        `json:"location,omitempty"`
	RadiusKm       float64       `json:"radiusKm,omitempty"`
	Context        *ContextInput `json:"context,omitempty"`
}

// RefineItineraryRequest reworks a stored itinerary: destinations can be
// removed and the window tightened.
type RefineItineraryRequest struct {
	RemoveDestinationIDs []string    `json:"removeDestinationIds,omitempty"`
	Window               *TimeWindow `json:"window,omitempty"`
}

// Destination is a catalog snapshot as returned to clients.
type Destination struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Location             Point    `json:"location"`
	Categories           []string `json:"categories"`
	CostLevel            int      `json:"costLevel"`
	VisitDurationMinutes int      `json:"visitDurationMinutes"`
	Popularity           float64  `json:"popularity"`
}

// Factor is one entry of a score's reasoning trail.
type Factor struct {
	Dimension string `json:"dimension"`
	Detail    string `json:"detail"`
	Polarity  string `json:"polarity,omitempty"`
	Magnitude string `json:"magnitude,omitempty"`
}

// Reasoning explains a destination's score.
type Reasoning struct {
	PreferenceFactors []Factor `json:"preferenceFactors"`
	ContextFactors    []Factor `json:"contextFactors"`
}

// ScoredDestination pairs a destination with its score and reasoning.
type ScoredDestination struct {
	Destination Destination `json:"destination"`
	Score       float64     `json:"score"`
	Reasoning   Reasoning   `json:"reasoning"`
}

// ItineraryItem is one timed entry of an itinerary.
type ItineraryItem struct {
	Type                      string    `json:"type"`
	DestinationID             string    `json:"destinationId,omitempty"`
	DestinationName           string    `json:"destinationName,omitempty"`
	Location                  *Point    `json:"location,omitempty"`
	StartTime                 Timestamp `json:"startTime"`
	EndTime                   Timestamp `json:"endTime"`
	TravelMinutesFromPrevious int       `json:"travelMinutesFromPrevious,omitempty"`
	Score                     float64   `json:"score,omitempty"`
}

// Itinerary is a persisted itinerary as returned to clients.
type Itinerary struct {
	ID        string          `json:"id"`
	Items     []ItineraryItem `json:"items"`
	CreatedAt Timestamp       `json:"createdAt"`
}

// RecommendationsResponse is the result of a generate call.
type RecommendationsResponse struct {
	Results   []ScoredDestination `json:"results"`
	Itinerary *Itinerary          `json:"itinerary,omitempty"`
}

// ScoreResponse is the result of a score-only call.
type ScoreResponse struct {
	Results []ScoredDestination `json:"results"`
}

// PagedItineraries is a page of stored itineraries.
type PagedItineraries struct {
	Items []Itinerary       `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
