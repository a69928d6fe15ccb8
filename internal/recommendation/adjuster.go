package recommendation

import (
	"fmt"
	"math"
	"sort"

	"github.com/vacae/vacae-backend/pkg/geo"
)

// Contextual adjustment policy constants.
const (
	// factorReportThreshold is how far a dimension's net multiplier must
	// deviate from 1.0 before it is recorded in the reasoning trail.
	factorReportThreshold = 0.1

	// strongDeviation separates moderate from strong reasoning entries.
	strongDeviation = 0.3

	// Event proximity multipliers, strongest first.
	eventColocationBoost = 1.5
	eventNearbyBoost     = 1.2
	eventThematicBoost   = 1.1
	eventNearbyRadiusKm  = 1.0

	// Time-constraint tiers for visits that exceed the remaining budget.
	overBudgetSmallPenalty  = 0.8 // up to 30 minutes over
	overBudgetMediumPenalty = 0.6 // up to 60 minutes over
	overBudgetLargePenalty  = 0.3
	goodFitBonus            = 1.2 // visit uses 70–90% of the budget
)

// ContextualAdjuster applies independent multiplicative adjustment factors to
// a preference score based on weather, time of day, day of week, season,
// nearby events and the remaining time budget. It is a pure pipeline: each
// dimension computes its own net multiplier from the injected lookup tables
// and the dimensions compose multiplicatively.
type ContextualAdjuster struct {
	tables AdjustmentTables
	stages []stage
}

// stage is one contextual dimension of the adjustment pipeline.
type stage struct {
	dimension string
	apply     func(t AdjustmentTables, dest Destination, ctx Context) (float64, string)
}

// NewContextualAdjuster creates an adjuster over the given tables.
func NewContextualAdjuster(tables AdjustmentTables) *ContextualAdjuster {
	return &ContextualAdjuster{
		tables: tables,
		stages: []stage{
			{"weather", weatherStage},
			{"timeOfDay", timeOfDayStage},
			{"dayOfWeek", dayOfWeekStage},
			{"season", seasonStage},
			{"events", eventsStage},
			{"timeConstraint", timeConstraintStage},
		},
	}
}

// Adjust returns the composed contextual multiplier for a destination in the
// given context, plus reasoning entries for every dimension whose net
// multiplier deviates from neutral by more than the report threshold.
func (a *ContextualAdjuster) Adjust(dest Destination, ctx Context) (float64, []Factor) {
	multiplier := 1.0
	var factors []Factor

	for _, s := range a.stages {
		m, detail := s.apply(a.tables, dest, ctx)
		if m <= 0 {
			m = 1.0
		}
		multiplier *= m

		deviation := math.Abs(m - 1.0)
		if deviation <= factorReportThreshold {
			continue
		}

		f := Factor{
			Dimension: s.dimension,
			Detail:    detail,
			Magnitude: MagnitudeModerate,
			Polarity:  PolarityPositive,
		}
		if deviation > strongDeviation {
			f.Magnitude = MagnitudeStrong
		}
		if m < 1.0 {
			f.Polarity = PolarityNegative
		}
		factors = append(factors, f)
	}

	return multiplier, factors
}

// weatherStage multiplies the entries of the weather table matched by the
// destination's boolean attributes.
func weatherStage(t AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	table, ok := t.Weather[ctx.Weather]
	if !ok {
		return 1.0, ""
	}

	// Attributes is a map, so walk it in sorted order to keep the
	// reasoning detail stable across runs.
	attrs := make([]string, 0, len(dest.Attributes))
	for attr, enabled := range dest.Attributes {
		if enabled {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)

	m := 1.0
	var matched string
	for _, attr := range attrs {
		if factor, ok := table[attr]; ok {
			m *= factor
			matched = attr
		}
	}
	return m, fmt.Sprintf("%s attribute in %s weather", matched, ctx.Weather)
}

// timeOfDayStage multiplies the time-of-day table entries matched by the
// destination's categories.
func timeOfDayStage(t AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	table, ok := t.TimeOfDay[ctx.TimeOfDay]
	if !ok {
		return 1.0, ""
	}

	m := 1.0
	for _, c := range dest.Categories {
		if factor, ok := table[c]; ok {
			m *= factor
		}
	}
	return m, fmt.Sprintf("category fit for the %s", ctx.TimeOfDay)
}

// dayOfWeekStage applies the weekend or weekday category table.
func dayOfWeekStage(t AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	table := t.Weekday
	label := "weekday"
	if ctx.DayOfWeek == 0 || ctx.DayOfWeek == 6 {
		table = t.Weekend
		label = "weekend"
	}

	m := 1.0
	for _, c := range dest.Categories {
		if factor, ok := table[c]; ok {
			m *= factor
		}
	}
	return m, fmt.Sprintf("category fit for a %s", label)
}

// seasonStage derives a multiplier from the destination's own seasonality
// record: peak season boosts, off season dampens, otherwise the 0..5 rating
// is mapped linearly onto 0.8..1.2.
func seasonStage(_ AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	info, ok := dest.Seasonality[ctx.Season]
	if !ok {
		return 1.0, ""
	}

	switch {
	case info.IsPeak:
		return 1.3, fmt.Sprintf("peak season in %s", ctx.Season)
	case info.IsOff:
		return 0.6, fmt.Sprintf("off season in %s", ctx.Season)
	default:
		return 0.8 + info.Rating/5*0.4, fmt.Sprintf("seasonal rating for %s", ctx.Season)
	}
}

// eventsStage checks each event against three proximity classes in priority
// order and stops at the first (strongest) match per event. Multiple distinct
// events can each contribute a factor.
func eventsStage(_ AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	m := 1.0
	var nearest string
	for _, ev := range ctx.Events {
		switch {
		case ev.DestinationID != "" && ev.DestinationID == dest.ID:
			m *= eventColocationBoost
			nearest = ev.Name
		case !ev.Location.IsZero() && geo.Haversine(ev.Location, dest.Location) <= eventNearbyRadiusKm:
			m *= eventNearbyBoost
			nearest = ev.Name
		case sharesCategory(ev.Categories, dest.Categories):
			m *= eventThematicBoost
			nearest = ev.Name
		}
	}
	return m, fmt.Sprintf("near event %q", nearest)
}

// timeConstraintStage penalizes visits that exceed the remaining time budget,
// tiered by the size of the excess, and rewards visits that use most of the
// budget without exceeding it.
func timeConstraintStage(_ AdjustmentTables, dest Destination, ctx Context) (float64, string) {
	available := ctx.AvailableTimeMinutes
	if available <= 0 || dest.VisitDuration <= 0 {
		return 1.0, ""
	}

	if excess := dest.VisitDuration - available; excess > 0 {
		detail := fmt.Sprintf("visit runs %d minutes over your remaining time", excess)
		switch {
		case excess <= 30:
			return overBudgetSmallPenalty, detail
		case excess <= 60:
			return overBudgetMediumPenalty, detail
		default:
			return overBudgetLargePenalty, detail
		}
	}

	ratio := float64(dest.VisitDuration) / float64(available)
	if ratio >= 0.7 && ratio <= 0.9 {
		return goodFitBonus, "visit length fits your remaining time well"
	}
	return 1.0, ""
}

func sharesCategory(a, b []CategoryID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
