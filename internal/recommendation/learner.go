package recommendation

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Learner policy constants.
const (
	// DefaultFeedbackWindowDays bounds how far back feedback is considered.
	DefaultFeedbackWindowDays = 90

	// emaWeight is the per-update weight when nudging cost and activity
	// level toward completed destinations.
	emaWeight = 0.3

	rejectedWeight = -1.0
	acceptedWeight = 0.5
)

// LearnResult is the outcome of one learning pass. Updated is false when the
// window held no usable feedback; that is a valid no-op, not an error.
type LearnResult struct {
	Profile     PreferenceProfile
	Updated     bool
	SamplesUsed int
}

// PreferenceLearner re-estimates a user's category, cost and activity
// preferences from historical accept/reject/complete feedback. It runs as an
// offline batch computation; the surrounding worker supplies the joined
// feedback and destination data and persists the result.
type PreferenceLearner struct {
	logger zerolog.Logger
}

// NewPreferenceLearner creates a learner.
func NewPreferenceLearner(logger zerolog.Logger) *PreferenceLearner {
	return &PreferenceLearner{logger: logger}
}

// Learn derives a revised profile from the previous one plus feedback joined
// with destination attributes. Categories with a positive accumulated signal
// become the new preferred set; when none are positive the previous set is
// kept so preferences never collapse to empty. Cost and activity level move
// via exponential moving average toward completed destinations only.
func (l *PreferenceLearner) Learn(previous PreferenceProfile, feedback []Feedback, destinations map[string]Destination) LearnResult {
	if len(feedback) == 0 {
		return LearnResult{Profile: previous}
	}

	categorySums := make(map[CategoryID]float64)
	costEMA := float64(previous.CostLevel)
	if costEMA == 0 {
		costEMA = 3
	}
	activityEMA := activityOrdinal(previous.ActivityLevel)
	samples := 0

	for _, fb := range feedback {
		dest, ok := destinations[fb.DestinationID]
		if !ok {
			l.logger.Warn().
				Str("destination_id", fb.DestinationID).
				Msg("feedback references unknown destination, skipping")
			continue
		}

		weight := feedbackWeight(fb)
		for _, c := range dest.Categories {
			categorySums[c] += weight
		}

		if fb.Outcome == OutcomeCompleted {
			costEMA += emaWeight * (float64(dest.CostLevel) - costEMA)
			activityEMA += emaWeight * (impliedActivity(dest.VisitDuration) - activityEMA)
		}
		samples++
	}

	if samples == 0 {
		return LearnResult{Profile: previous}
	}

	var categories []CategoryID
	for c, sum := range categorySums {
		if sum > 0 {
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		categories = previous.Categories
	}

	profile := previous
	profile.Categories = categories
	profile.CostLevel = clampCost(int(math.Round(costEMA)))
	profile.ActivityLevel = ordinalActivity(activityEMA)
	profile.UpdatedAt = time.Now()

	return LearnResult{Profile: profile, Updated: true, SamplesUsed: samples}
}

// feedbackWeight maps an outcome to its signed learning multiplier:
// rejections count fully against, completions count by rating (default
// neutral-positive), bare acceptances count half.
func feedbackWeight(fb Feedback) float64 {
	switch fb.Outcome {
	case OutcomeRejected:
		return rejectedWeight
	case OutcomeCompleted:
		if fb.Rating != nil {
			return float64(*fb.Rating) / 3
		}
		return 1
	case OutcomeAccepted:
		return acceptedWeight
	default:
		return 0
	}
}

// impliedActivity maps a visit duration onto the relaxed..active ordinal
// scale: long visits imply a relaxed pace, short visits an active one.
func impliedActivity(minutes int) float64 {
	switch {
	case minutes > 120:
		return 0 // relaxed
	case minutes < 60:
		return 2 // active
	default:
		return 1 // moderate
	}
}

func activityOrdinal(level ActivityLevel) float64 {
	switch level {
	case ActivityRelaxed:
		return 0
	case ActivityActive:
		return 2
	default:
		return 1
	}
}

func ordinalActivity(v float64) ActivityLevel {
	switch {
	case v < 0.5:
		return ActivityRelaxed
	case v > 1.5:
		return ActivityActive
	default:
		return ActivityModerate
	}
}

func clampCost(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
