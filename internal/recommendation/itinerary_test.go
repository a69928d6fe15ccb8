package recommendation

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/pkg/geo"
)

func newTestBuilder() *ItineraryBuilder {
	return NewItineraryBuilder(BuilderConfig{Logger: zerolog.Nop()})
}

func dayWindow(startHour, endHour int) Window {
	day := time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC)
	return Window{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func midtownCandidates() []ScoredDestination {
	return []ScoredDestination{
		{
			Destination: Destination{
				ID: "a", Name: "Gallery",
				Location:      geo.Point{Lat: 40.7580, Lng: -73.9855},
				VisitDuration: 60,
			},
			Score: 0.9,
		},
		{
			Destination: Destination{
				ID: "b", Name: "Library",
				Location:      geo.Point{Lat: 40.7610, Lng: -73.9780},
				VisitDuration: 90,
			},
			Score: 0.8,
		},
		{
			Destination: Destination{
				ID: "c", Name: "Conservatory",
				Location:      geo.Point{Lat: 40.7828, Lng: -73.9653},
				VisitDuration: 120,
			},
			Score: 0.7,
		},
	}
}

var startPoint = geo.Point{Lat: 40.7550, Lng: -73.9900}

func TestBuilder_EmptyCandidates(t *testing.T) {
	b := newTestBuilder()

	items, err := b.Build(nil, dayWindow(9, 18), startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty itinerary, got %d items", len(items))
	}
}

func TestBuilder_InvalidInputs(t *testing.T) {
	b := newTestBuilder()
	candidates := midtownCandidates()

	if _, err := b.Build(candidates, Window{}, startPoint, geo.ModeWalking); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}

	w := dayWindow(9, 18)
	inverted := Window{Start: w.End, End: w.Start}
	if _, err := b.Build(candidates, inverted, startPoint, geo.ModeWalking); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow for inverted window, got %v", err)
	}

	badStart := geo.Point{Lat: 95, Lng: 0}
	if _, err := b.Build(candidates, w, badStart, geo.ModeWalking); !errors.Is(err, ErrMissingStartLocation) {
		t.Errorf("expected ErrMissingStartLocation, got %v", err)
	}
}

func TestBuilder_RespectsTimeBudget(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(9, 18)

	items, err := b.Build(midtownCandidates(), window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected at least one stop")
	}

	assertItineraryInvariants(t, items, window)
}

func TestBuilder_AllStopsFitGenerousWindow(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(8, 22)

	items, err := b.Build(midtownCandidates(), window, startPoint, geo.ModeDriving)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stops := 0
	for _, item := range items {
		if item.Type == ItemStop {
			stops++
		}
	}
	if stops != 3 {
		t.Errorf("expected all 3 stops scheduled, got %d", stops)
	}
	assertItineraryInvariants(t, items, window)
}

func TestBuilder_TightWindowProducesPartialItinerary(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(9, 11) // two hours: not everything fits

	items, err := b.Build(midtownCandidates(), window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("partial itinerary must not be an error: %v", err)
	}

	stops := 0
	for _, item := range items {
		if item.Type == ItemStop {
			stops++
		}
	}
	if stops >= 3 {
		t.Errorf("expected a partial itinerary, got %d stops", stops)
	}
	assertItineraryInvariants(t, items, window)
}

func TestBuilder_NothingFits(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(9, 10)

	candidates := []ScoredDestination{{
		Destination: Destination{
			ID:            "marathon",
			Location:      geo.Point{Lat: 40.7580, Lng: -73.9855},
			VisitDuration: 600,
		},
		Score: 1.0,
	}}

	items, err := b.Build(candidates, window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty itinerary when nothing fits, got %d items", len(items))
	}
}

func TestBuilder_TravelPenaltyBreaksTies(t *testing.T) {
	b := newTestBuilder()

	near := ScoredDestination{
		Destination: Destination{
			ID:            "near",
			Location:      geo.Point{Lat: 40.7560, Lng: -73.9890},
			VisitDuration: 60,
		},
		Score: 0.8,
	}
	far := ScoredDestination{
		Destination: Destination{
			ID:            "far",
			Location:      geo.Point{Lat: 40.8500, Lng: -73.9000},
			VisitDuration: 60,
		},
		Score: 0.8,
	}

	items, err := b.Build([]ScoredDestination{far, near}, dayWindow(9, 20), startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) == 0 || items[0].DestinationID != "near" {
		t.Errorf("expected closer candidate first under equal scores, got %+v", items)
	}
}

func TestBuilder_InsertsLunchBreak(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(10, 18)

	// First stop ends shortly after 11:00, inside the lunch window.
	candidates := []ScoredDestination{
		{
			Destination: Destination{
				ID:            "morning",
				Location:      geo.Point{Lat: 40.7560, Lng: -73.9890},
				VisitDuration: 60,
			},
			Score: 0.9,
		},
		{
			Destination: Destination{
				ID:            "afternoon",
				Location:      geo.Point{Lat: 40.7580, Lng: -73.9855},
				VisitDuration: 90,
			},
			Score: 0.8,
		},
	}

	items, err := b.Build(candidates, window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	breakIdx := -1
	for i, item := range items {
		if item.Type == ItemBreak {
			breakIdx = i
		}
	}
	if breakIdx == -1 {
		t.Fatalf("expected a lunch break, got %+v", items)
	}
	if got := items[breakIdx].Duration(); got != 60*time.Minute {
		t.Errorf("expected 60m break, got %v", got)
	}
	if h := items[breakIdx].StartTime.Hour(); h < 11 || h > 13 {
		t.Errorf("break starts outside lunch window: %v", items[breakIdx].StartTime)
	}
	assertItineraryInvariants(t, items, window)
}

func TestBuilder_RefineIdempotentWithNoRemovals(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(9, 18)
	candidates := midtownCandidates()

	built, err := b.Build(candidates, window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	refined, err := b.Refine(candidates, nil, window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("refine failed: %v", err)
	}

	if len(built) != len(refined) {
		t.Fatalf("expected identical sequences, got %d vs %d items", len(built), len(refined))
	}
	for i := range built {
		if built[i] != refined[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, built[i], refined[i])
		}
	}
}

func TestBuilder_RefineRemovesDestination(t *testing.T) {
	b := newTestBuilder()
	window := dayWindow(9, 18)

	items, err := b.Refine(midtownCandidates(), []string{"a"}, window, startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("refine failed: %v", err)
	}
	for _, item := range items {
		if item.DestinationID == "a" {
			t.Error("removed destination still scheduled")
		}
	}
}

func TestBuilder_RefineAllRemovedFails(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Refine(midtownCandidates(), []string{"a", "b", "c"}, dayWindow(9, 18), startPoint, geo.ModeWalking)
	if !errors.Is(err, ErrAllDestinationsRemoved) {
		t.Errorf("expected ErrAllDestinationsRemoved, got %v", err)
	}
}

func TestBuilder_SkipsMalformedCandidates(t *testing.T) {
	b := newTestBuilder()

	candidates := append(midtownCandidates(), ScoredDestination{
		Destination: Destination{ID: "", Location: geo.Point{Lat: 40.7, Lng: -74.0}, VisitDuration: 30},
		Score:       2.0,
	})

	items, err := b.Build(candidates, dayWindow(9, 18), startPoint, geo.ModeWalking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		if item.Type == ItemStop && item.DestinationID == "" {
			t.Error("malformed candidate was scheduled")
		}
	}
}

// assertItineraryInvariants checks strict ordering, non-overlap and the
// window bound for a generated item sequence.
func assertItineraryInvariants(t *testing.T, items []ItineraryItem, window Window) {
	t.Helper()

	for i, item := range items {
		if !item.EndTime.After(item.StartTime) {
			t.Errorf("item %d has non-positive span: %+v", i, item)
		}
		if item.EndTime.After(window.End) {
			t.Errorf("item %d ends after window close: %v > %v", i, item.EndTime, window.End)
		}
		if item.StartTime.Before(window.Start) {
			t.Errorf("item %d starts before window open: %v", i, item.StartTime)
		}
		if i > 0 && items[i].StartTime.Before(items[i-1].EndTime) {
			t.Errorf("items %d and %d overlap", i-1, i)
		}
	}
}
