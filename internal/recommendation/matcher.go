package recommendation

import "fmt"

// Matcher scoring constants. These are product policy values, not derived.
const (
	neutralScore         = 0.5
	categoryOverlapBoost = 0.3
	exclusionPenalty     = 0.4
	costMismatchPenalty  = 0.1
	durationFitBonus     = 0.1
)

// PreferenceMatcher scores a destination against a stored preference profile
// on category overlap, cost fit and activity/duration fit. It is stateless
// and safe for concurrent use.
type PreferenceMatcher struct{}

// NewPreferenceMatcher creates a PreferenceMatcher.
func NewPreferenceMatcher() *PreferenceMatcher {
	return &PreferenceMatcher{}
}

// Match returns a preference score in [0,1] plus the factors that produced
// it. An empty profile yields the neutral 0.5 with no factors (new-user
// fallback).
func (m *PreferenceMatcher) Match(dest Destination, profile PreferenceProfile) (float64, []Factor) {
	if profile.IsEmpty() {
		return neutralScore, nil
	}

	score := neutralScore
	var factors []Factor

	// Category overlap.
	if len(dest.Categories) > 0 {
		matched := 0
		for _, c := range dest.Categories {
			if containsCategory(profile.Categories, c) {
				matched++
			}
		}
		if matched > 0 {
			overlap := float64(matched) / float64(len(dest.Categories))
			score += categoryOverlapBoost * overlap
			factors = append(factors, Factor{
				Dimension: "categories",
				Detail:    fmt.Sprintf("matches %d of %d categories you like", matched, len(dest.Categories)),
				Polarity:  PolarityPositive,
			})
		}
	}

	// Excluded-activity veto. Strong enough to drive the raw score negative
	// before clamping.
	for _, c := range dest.Categories {
		if containsCategory(profile.ExcludedActivities, c) {
			score -= exclusionPenalty
			factors = append(factors, Factor{
				Dimension: "exclusions",
				Detail:    fmt.Sprintf("includes excluded activity %q", c),
				Polarity:  PolarityNegative,
			})
			break
		}
	}

	// Cost fit.
	if profile.CostLevel > 0 && dest.CostLevel > 0 {
		diff := dest.CostLevel - profile.CostLevel
		if diff < 0 {
			diff = -diff
		}
		if diff > 0 {
			score -= costMismatchPenalty * float64(diff)
			factors = append(factors, Factor{
				Dimension: "cost",
				Detail:    fmt.Sprintf("cost level differs from your preference by %d", diff),
				Polarity:  PolarityNegative,
			})
		}
	}

	// Activity/duration fit.
	if durationFitsActivity(dest.VisitDuration, profile.ActivityLevel) {
		score += durationFitBonus
		factors = append(factors, Factor{
			Dimension: "pace",
			Detail:    fmt.Sprintf("visit length suits a %s pace", profile.ActivityLevel),
			Polarity:  PolarityPositive,
		})
	}

	return clamp01(score), factors
}

// durationFitsActivity reports whether a visit duration falls in the band
// associated with an activity level: relaxed favors long visits, active
// favors short ones, moderate sits between.
func durationFitsActivity(minutes int, level ActivityLevel) bool {
	switch level {
	case ActivityRelaxed:
		return minutes > 120
	case ActivityModerate:
		return minutes >= 60 && minutes <= 180
	case ActivityActive:
		return minutes < 120
	default:
		return false
	}
}

func containsCategory(set []CategoryID, c CategoryID) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
