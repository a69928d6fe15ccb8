package recommendation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/pkg/geo"
)

// Builder policy constants.
const (
	// DefaultDistancePenaltyFactor is the score cost per minute of travel
	// used when picking the next stop.
	DefaultDistancePenaltyFactor = 0.005

	// defaultBreakDuration is the length of the inserted lunch break.
	defaultBreakDuration = 60 * time.Minute

	// Lunch window hours (inclusive) during which a break may be inserted.
	breakWindowStartHour = 11
	breakWindowEndHour   = 13
)

// Window is the wall-clock time budget for an itinerary.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the window is well formed.
func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.End.After(w.Start)
}

// BuilderConfig holds configuration for the itinerary builder.
type BuilderConfig struct {
	// DistancePenaltyFactor trades score against travel minutes when
	// choosing the next stop. Default: DefaultDistancePenaltyFactor.
	DistancePenaltyFactor float64

	// BreakDuration is the length of the lunch break. Default: 60 minutes.
	BreakDuration time.Duration

	// Logger for per-item warnings.
	Logger zerolog.Logger
}

// ItineraryBuilder greedily sequences a ranked candidate list into a timed
// itinerary that respects travel time and the caller's wall-clock window.
// The search is O(n²) over remaining candidates and does not backtrack, so
// results are locally optimal only.
type ItineraryBuilder struct {
	distancePenalty float64
	breakDuration   time.Duration
	logger          zerolog.Logger
}

// NewItineraryBuilder creates a builder from config, applying defaults.
func NewItineraryBuilder(cfg BuilderConfig) *ItineraryBuilder {
	distancePenalty := cfg.DistancePenaltyFactor
	if distancePenalty == 0 {
		distancePenalty = DefaultDistancePenaltyFactor
	}
	breakDuration := cfg.BreakDuration
	if breakDuration == 0 {
		breakDuration = defaultBreakDuration
	}
	return &ItineraryBuilder{
		distancePenalty: distancePenalty,
		breakDuration:   breakDuration,
		logger:          cfg.Logger,
	}
}

// Build constructs an ordered itinerary from score-ranked candidates. An
// empty or partial itinerary is a valid result, not an error: candidates that
// cannot fit before the window closes are simply left out.
func (b *ItineraryBuilder) Build(candidates []ScoredDestination, window Window, start geo.Point, mode geo.TransportMode) ([]ItineraryItem, error) {
	if !window.Valid() {
		return nil, ErrInvalidWindow
	}
	if !start.Valid() {
		return nil, ErrMissingStartLocation
	}

	pool := make([]ScoredDestination, 0, len(candidates))
	for _, c := range candidates {
		if c.Destination.ID == "" || !c.Destination.Location.Valid() {
			b.logger.Warn().
				Str("destination_id", c.Destination.ID).
				Msg("skipping malformed candidate")
			continue
		}
		pool = append(pool, c)
	}

	items := []ItineraryItem{}
	currentTime := window.Start
	currentLocation := start
	breakTaken := false

	for len(pool) > 0 {
		next, travel, ok := b.pickNext(pool, currentTime, currentLocation, window.End, mode)
		if !ok {
			break // nothing left fits; partial itinerary is fine
		}

		visit := time.Duration(pool[next].Destination.VisitDuration) * time.Minute
		stopStart := currentTime.Add(travel)
		stopEnd := stopStart.Add(visit)

		items = append(items, ItineraryItem{
			Type:                   ItemStop,
			DestinationID:          pool[next].Destination.ID,
			DestinationName:        pool[next].Destination.Name,
			Location:               pool[next].Destination.Location,
			StartTime:              stopStart,
			EndTime:                stopEnd,
			TravelTimeFromPrevious: travel,
			Score:                  pool[next].Score,
		})

		currentTime = stopEnd
		currentLocation = pool[next].Destination.Location
		pool = append(pool[:next], pool[next+1:]...)

		// One lunch-break opportunity check per appended stop; the check is
		// not retried later, which can skip windows that open up after
		// candidates are dropped. Known heuristic limitation.
		if !breakTaken && inBreakWindow(currentTime) {
			breakEnd := currentTime.Add(b.breakDuration)
			if !breakEnd.After(window.End) {
				items = append(items, ItineraryItem{
					Type:      ItemBreak,
					StartTime: currentTime,
					EndTime:   breakEnd,
				})
				currentTime = breakEnd
				breakTaken = true
			}
		}
	}

	return items, nil
}

// Refine rebuilds an itinerary over a reduced candidate set, after removing
// the listed destinations and applying the (possibly tightened) window.
// Removing every candidate is an explicit user-facing error; refining with
// nothing removed and unchanged inputs reproduces the original sequence.
func (b *ItineraryBuilder) Refine(candidates []ScoredDestination, removed []string, window Window, start geo.Point, mode geo.TransportMode) ([]ItineraryItem, error) {
	remaining := candidates
	if len(removed) > 0 {
		removedSet := make(map[string]struct{}, len(removed))
		for _, id := range removed {
			removedSet[id] = struct{}{}
		}

		remaining = make([]ScoredDestination, 0, len(candidates))
		for _, c := range candidates {
			if _, gone := removedSet[c.Destination.ID]; !gone {
				remaining = append(remaining, c)
			}
		}

		if len(candidates) > 0 && len(remaining) == 0 {
			return nil, ErrAllDestinationsRemoved
		}
	}

	return b.Build(remaining, window, start, mode)
}

// pickNext scans the remaining pool and returns the index of the candidate
// maximizing score minus travel cost among those that still fit before the
// window closes, along with its travel time. ok=false when nothing fits.
func (b *ItineraryBuilder) pickNext(pool []ScoredDestination, currentTime time.Time, from geo.Point, end time.Time, mode geo.TransportMode) (int, time.Duration, bool) {
	bestIdx := -1
	var bestTravel time.Duration
	bestValue := 0.0

	for i, c := range pool {
		travel := geo.EstimateTravelTime(from, c.Destination.Location, mode)
		visit := time.Duration(c.Destination.VisitDuration) * time.Minute
		if currentTime.Add(travel).Add(visit).After(end) {
			continue
		}

		value := c.Score - travel.Minutes()*b.distancePenalty
		if bestIdx == -1 || value > bestValue {
			bestIdx = i
			bestTravel = travel
			bestValue = value
		}
	}

	if bestIdx == -1 {
		return 0, 0, false
	}
	return bestIdx, bestTravel, true
}

func inBreakWindow(t time.Time) bool {
	h := t.Hour()
	return h >= breakWindowStartHour && h <= breakWindowEndHour
}
