// Package feedback stores and queries user feedback on recommended
// destinations, the raw material for preference learning.
package feedback

import (
	"errors"
	"time"

	"github.com/vacae/vacae-backend/internal/recommendation"
)

// Repository errors.
var (
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// Record is one stored feedback event.
type Record struct {
	ID            string
	UserID        string
	DestinationID string
	ItineraryID   string
	Outcome       recommendation.Outcome
	Rating        *int // 1..5, only meaningful for completed outcomes
	CreatedAt     time.Time
}

// Feedback converts the record to the learner's input shape.
func (r Record) Feedback() recommendation.Feedback {
	return recommendation.Feedback{
		DestinationID: r.DestinationID,
		Outcome:       r.Outcome,
		Rating:        r.Rating,
		CreatedAt:     r.CreatedAt,
	}
}
