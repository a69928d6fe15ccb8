// Package recommendation implements the scoring and itinerary-construction
// core: preference matching, contextual re-ranking, greedy scheduling and
// feedback-driven preference learning.
package recommendation

import (
	"time"

	"github.com/vacae/vacae-backend/pkg/geo"
)

// CategoryID identifies a destination category (e.g. "museums", "hiking").
type CategoryID string

// ActivityLevel describes how physically demanding a traveler wants their
// days to be.
type ActivityLevel string

const (
	ActivityRelaxed  ActivityLevel = "relaxed"
	ActivityModerate ActivityLevel = "moderate"
	ActivityActive   ActivityLevel = "active"
)

// Weather is a coarse weather condition supplied by the caller.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
)

// TimeOfDay is the part of day the recommendation is generated for.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// Season is a calendar season.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// DaySchedule holds a user's preferred activity hours.
type DaySchedule struct {
	MorningStart string `json:"morningStart"` // HH:mm local
	EveningEnd   string `json:"eveningEnd"`   // HH:mm local
}

// PreferenceProfile is a user's stored travel preference profile. It is
// read-only to scoring; only the preference store and the learner mutate it.
type PreferenceProfile struct {
	UserID                 string              `json:"userId"`
	Categories             []CategoryID        `json:"categories"`
	CostLevel              int                 `json:"costLevel"` // 1..5
	ActivityLevel          ActivityLevel       `json:"activityLevel"`
	ExcludedActivities     []CategoryID        `json:"excludedActivities"`
	PreferredTransportation []geo.TransportMode `json:"preferredTransportation"`
	Schedule               DaySchedule         `json:"schedule"`
	UpdatedAt              time.Time           `json:"updatedAt"`
}

// IsEmpty reports whether the profile carries no usable signal, in which case
// scoring falls back to the neutral default.
func (p PreferenceProfile) IsEmpty() bool {
	return len(p.Categories) == 0 &&
		len(p.ExcludedActivities) == 0 &&
		p.CostLevel == 0 &&
		p.ActivityLevel == ""
}

// SeasonInfo describes how well a destination fits a season.
type SeasonInfo struct {
	Rating float64 `json:"rating"` // 0..5
	IsPeak bool    `json:"isPeak"`
	IsOff  bool    `json:"isOff"`
}

// Destination is an immutable snapshot of a catalog entry.
type Destination struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Location      geo.Point             `json:"location"`
	Categories    []CategoryID          `json:"categories"`
	CostLevel     int                   `json:"costLevel"` // 1..5
	VisitDuration int                   `json:"visitDuration"` // minutes
	Popularity    float64               `json:"popularity"` // 0..5
	Attributes    map[string]bool       `json:"attributes"`
	Seasonality   map[Season]SeasonInfo `json:"seasonality"`
}

// HasCategory reports whether the destination carries the given category.
func (d Destination) HasCategory(c CategoryID) bool {
	for _, dc := range d.Categories {
		if dc == c {
			return true
		}
	}
	return false
}

// Event is an externally supplied happening near the candidate neighborhood.
type Event struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Location      geo.Point    `json:"location"`
	Categories    []CategoryID `json:"categories"`
	DestinationID string       `json:"destinationId,omitempty"` // set when hosted at a catalog destination
}

// Context carries the request-scoped situational inputs for one scoring call.
type Context struct {
	Date                 time.Time `json:"date"`
	TimeOfDay            TimeOfDay `json:"timeOfDay"`
	Weather              Weather   `json:"weather"`
	Season               Season    `json:"season"`
	DayOfWeek            int       `json:"dayOfWeek"` // 0 = Sunday
	Events               []Event   `json:"events"`
	AvailableTimeMinutes int       `json:"availableTimeMinutes"`
}

// Polarity labels a factor's direction.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Magnitude labels how far a contextual multiplier deviates from neutral.
type Magnitude string

const (
	MagnitudeModerate Magnitude = "moderate"
	MagnitudeStrong   Magnitude = "strong"
)

// Factor is one human-readable entry in a score's reasoning trail.
type Factor struct {
	Dimension string    `json:"dimension"`
	Detail    string    `json:"detail"`
	Polarity  Polarity  `json:"polarity,omitempty"`
	Magnitude Magnitude `json:"magnitude,omitempty"`
}

// Reasoning is the explainability trail attached to a scored destination.
type Reasoning struct {
	PreferenceFactors []Factor `json:"preferenceFactors"`
	ContextFactors    []Factor `json:"contextFactors"`
}

// ScoredDestination pairs a destination snapshot with its final score and
// reasoning trail. Scores are not bounded above 1.0 after contextual
// multiplication; ordering, not magnitude, is the contract.
type ScoredDestination struct {
	Destination Destination `json:"destination"`
	Score       float64     `json:"score"`
	Reasoning   Reasoning   `json:"reasoning"`
}

// ItemType distinguishes itinerary entries.
type ItemType string

const (
	ItemStop  ItemType = "stop"
	ItemBreak ItemType = "break"
)

// ItineraryItem is one entry of a generated itinerary: a timed stop at a
// destination, or a break.
type ItineraryItem struct {
	Type                   ItemType      `json:"type"`
	DestinationID          string        `json:"destinationId,omitempty"`
	DestinationName        string        `json:"destinationName,omitempty"`
	Location               geo.Point     `json:"location,omitempty"`
	StartTime              time.Time     `json:"startTime"`
	EndTime                time.Time     `json:"endTime"`
	TravelTimeFromPrevious time.Duration `json:"travelTimeFromPrevious,omitempty"`
	Score                  float64       `json:"score,omitempty"`
}

// Duration returns the item's span.
func (i ItineraryItem) Duration() time.Duration {
	return i.EndTime.Sub(i.StartTime)
}

// Itinerary is an ordered, non-overlapping sequence of items. It is created
// once per generation or refinement call and never mutated in place.
type Itinerary struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Items     []ItineraryItem `json:"items"`
	Context   Context         `json:"context"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Stops returns only the destination stops of the itinerary.
func (it Itinerary) Stops() []ItineraryItem {
	var stops []ItineraryItem
	for _, item := range it.Items {
		if item.Type == ItemStop {
			stops = append(stops, item)
		}
	}
	return stops
}

// Outcome classifies user feedback on a recommended destination.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCompleted Outcome = "completed"
)

// Feedback is one historical accept/reject/complete signal joined with the
// destination it refers to.
type Feedback struct {
	DestinationID string    `json:"destinationId"`
	Outcome       Outcome   `json:"outcome"`
	Rating        *int      `json:"rating,omitempty"` // 1..5 when present
	CreatedAt     time.Time `json:"createdAt"`
}
