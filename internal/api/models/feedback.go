package models

// FeedbackCreateRequest records a user's reaction to a recommended
// destination.
type FeedbackCreateRequest struct {
	DestinationID string `json:"destinationId" validate:"required"`
	ItineraryID   string `json:"itineraryId,omitempty"`
	Outcome       string `json:"outcome" validate:"required,oneof=accepted rejected completed"`
	Rating        *int   `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// Feedback is a stored feedback event as returned to clients.
type Feedback struct {
	ID            string    `json:"id"`
	DestinationID string    `json:"destinationId"`
	ItineraryID   string    `json:"itineraryId,omitempty"`
	Outcome       string    `json:"outcome"`
	Rating        *int      `json:"rating,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
}
