package recommendation

import (
	"math"
	"testing"

	"github.com/vacae/vacae-backend/pkg/geo"
)

func TestAdjuster_RainyIndoorBoost(t *testing.T) {
	a := NewContextualAdjuster(DefaultTables())

	dest := Destination{
		ID:         "d",
		Location:   geo.Point{Lat: 40.7, Lng: -74.0},
		Attributes: map[string]bool{"indoor": true},
	}
	ctx := Context{Weather: WeatherRainy}

	m, factors := a.Adjust(dest, ctx)
	if math.Abs(m-1.4) > 1e-9 {
		t.Errorf("expected multiplier 1.4, got %v", m)
	}

	if len(factors) != 1 {
		t.Fatalf("expected 1 factor, got %d: %+v", len(factors), factors)
	}
	if factors[0].Magnitude != MagnitudeStrong {
		t.Errorf("expected strong magnitude, got %s", factors[0].Magnitude)
	}
	if factors[0].Polarity != PolarityPositive {
		t.Errorf("expected positive polarity, got %s", factors[0].Polarity)
	}
}

func TestAdjuster_WeatherDetailStableAcrossRuns(t *testing.T) {
	a := NewContextualAdjuster(DefaultTables())

	dest := Destination{
		ID:         "d",
		Attributes: map[string]bool{"indoor": true, "covered": true},
	}
	ctx := Context{Weather: WeatherRainy}

	m, factors := a.Adjust(dest, ctx)
	if math.Abs(m-1.4*1.2) > 1e-9 {
		t.Errorf("expected multiplier 1.68, got %v", m)
	}
	if len(factors) != 1 {
		t.Fatalf("expected 1 factor, got %d: %+v", len(factors), factors)
	}

	want := factors[0].Detail
	if want != "indoor attribute in rainy weather" {
		t.Errorf("unexpected detail %q", want)
	}
	for i := 0; i < 100; i++ {
		_, fs := a.Adjust(dest, ctx)
		if len(fs) != 1 || fs[0].Detail != want {
			t.Fatalf("detail changed between runs: %+v", fs)
		}
	}
}

func TestAdjuster_DisabledAttributeIgnored(t *testing.T) {
	a := NewContextualAdjuster(DefaultTables())

	dest := Destination{
		ID:         "d",
		Attributes: map[string]bool{"indoor": false},
	}

	if m, _ := a.Adjust(dest, Context{Weather: WeatherRainy}); m != 1.0 {
		t.Errorf("expected 1.0 for disabled attribute, got %v", m)
	}
}

func TestAdjuster_TimeConstraintTiers(t *testing.T) {
	a := NewContextualAdjuster(AdjustmentTables{}) // only timeConstraint fires

	tests := []struct {
		name      string
		duration  int
		available int
		want      float64
	}{
		{"fits exactly at budget", 120, 120, 1.0}, // ratio 1.0 outside bonus band
		{"well fitting 75 percent", 90, 120, 1.2},
		{"slightly over", 140, 120, 0.8},
		{"moderately over", 170, 120, 0.6},
		{"far over", 200, 120, 0.3},
		{"no budget supplied", 200, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := Destination{ID: "d", VisitDuration: tt.duration}
			ctx := Context{AvailableTimeMinutes: tt.available}
			if m, _ := a.Adjust(dest, ctx); math.Abs(m-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, m)
			}
		})
	}
}

func TestAdjuster_EventProximityClasses(t *testing.T) {
	a := NewContextualAdjuster(AdjustmentTables{})
	base := geo.Point{Lat: 40.7580, Lng: -73.9855}

	tests := []struct {
		name  string
		event Event
		want  float64
	}{
		{
			name:  "co-located event",
			event: Event{ID: "e1", Name: "festival", DestinationID: "d"},
			want:  1.5,
		},
		{
			name:  "event within a kilometer",
			event: Event{ID: "e2", Name: "parade", Location: geo.Point{Lat: 40.7620, Lng: -73.9820}},
			want:  1.2,
		},
		{
			name:  "thematic overlap only",
			event: Event{ID: "e3", Name: "art week", Location: geo.Point{Lat: 41.5, Lng: -73.0}, Categories: []CategoryID{"museums"}},
			want:  1.1,
		},
		{
			name:  "unrelated distant event",
			event: Event{ID: "e4", Name: "expo", Location: geo.Point{Lat: 41.5, Lng: -73.0}, Categories: []CategoryID{"tech"}},
			want:  1.0,
		},
	}

	dest := Destination{ID: "d", Location: base, Categories: []CategoryID{"museums"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := a.Adjust(dest, Context{Events: []Event{tt.event}})
			if math.Abs(m-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, m)
			}
		})
	}
}

func TestAdjuster_MultipleEventsCompose(t *testing.T) {
	a := NewContextualAdjuster(AdjustmentTables{})

	dest := Destination{ID: "d", Location: geo.Point{Lat: 40.7580, Lng: -73.9855}}
	ctx := Context{Events: []Event{
		{ID: "e1", Name: "festival", DestinationID: "d"},
		{ID: "e2", Name: "parade", Location: geo.Point{Lat: 40.7590, Lng: -73.9850}},
	}}

	if m, _ := a.Adjust(dest, ctx); math.Abs(m-1.5*1.2) > 1e-9 {
		t.Errorf("expected composed 1.8, got %v", m)
	}
}

func TestAdjuster_SeasonalityFromDestination(t *testing.T) {
	a := NewContextualAdjuster(AdjustmentTables{})

	tests := []struct {
		name string
		info SeasonInfo
		want float64
	}{
		{"peak season", SeasonInfo{Rating: 5, IsPeak: true}, 1.3},
		{"off season", SeasonInfo{Rating: 1, IsOff: true}, 0.6},
		{"mid rating", SeasonInfo{Rating: 2.5}, 1.0},
		{"top rating", SeasonInfo{Rating: 5}, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := Destination{
				ID:          "d",
				Seasonality: map[Season]SeasonInfo{SeasonSummer: tt.info},
			}
			m, _ := a.Adjust(dest, Context{Season: SeasonSummer})
			if math.Abs(m-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, m)
			}
		})
	}
}

func TestAdjuster_SmallDeviationsNotReported(t *testing.T) {
	tables := AdjustmentTables{
		TimeOfDay: map[TimeOfDay]map[CategoryID]float64{
			TimeMorning: {"cafes": 1.05},
		},
	}
	a := NewContextualAdjuster(tables)

	dest := Destination{ID: "d", Categories: []CategoryID{"cafes"}}
	m, factors := a.Adjust(dest, Context{TimeOfDay: TimeMorning})

	if math.Abs(m-1.05) > 1e-9 {
		t.Errorf("expected 1.05, got %v", m)
	}
	if len(factors) != 0 {
		t.Errorf("deviation within threshold should not be reported, got %+v", factors)
	}
}

func TestAdjuster_DimensionsComposeMultiplicatively(t *testing.T) {
	a := NewContextualAdjuster(DefaultTables())

	dest := Destination{
		ID:            "d",
		Location:      geo.Point{Lat: 40.7, Lng: -74.0},
		Categories:    []CategoryID{"museums"},
		Attributes:    map[string]bool{"indoor": true},
		VisitDuration: 90,
	}
	ctx := Context{
		Weather:              WeatherRainy,    // ×1.4
		TimeOfDay:            TimeAfternoon,   // museums ×1.2
		DayOfWeek:            2,               // weekday museums ×1.1
		AvailableTimeMinutes: 120,             // 75% fit ×1.2
	}

	want := 1.4 * 1.2 * 1.1 * 1.2
	if m, _ := a.Adjust(dest, ctx); math.Abs(m-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, m)
	}
}
