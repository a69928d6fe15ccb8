package handler

import (
	"time"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

func toGeoPoint(p models.Point) geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}

func toAPIPoint(p geo.Point) models.Point {
	return models.Point{Lat: p.Lat, Lng: p.Lng}
}

func toTransportMode(m models.TransportMode) geo.TransportMode {
	return geo.TransportMode(m)
}

func toCategories(in []string) []recommendation.CategoryID {
	out := make([]recommendation.CategoryID, len(in))
	for i, c := range in {
		out[i] = recommendation.CategoryID(c)
	}
	return out
}

func fromCategories(in []recommendation.CategoryID) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = string(c)
	}
	return out
}

// toContext converts the request context input to the scoring context.
// Absent fields stay zero and are derived server-side.
func toContext(in *models.ContextInput) recommendation.Context {
	if in == nil {
		return recommendation.Context{}
	}

	rctx := recommendation.Context{
		TimeOfDay:            recommendation.TimeOfDay(in.TimeOfDay),
		Weather:              recommendation.Weather(in.Weather),
		Season:               recommendation.Season(in.Season),
		AvailableTimeMinutes: in.AvailableTimeMinutes,
	}
	if in.Date != nil {
		rctx.Date = in.Date.Time()
	}
	for _, e := range in.Events {
		rctx.Events = append(rctx.Events, recommendation.Event{
			ID:            e.ID,
			Name:          e.Name,
			Location:      toGeoPoint(e.Location),
			Categories:    toCategories(e.Categories),
			DestinationID: e.DestinationID,
		})
	}
	return rctx
}

func toSelector(ids []string, location *models.Point, radiusKm float64) planner.CandidateSelector {
	selector := planner.CandidateSelector{
		DestinationIDs: ids,
		RadiusKm:       radiusKm,
	}
	if location != nil {
		p := toGeoPoint(*location)
		selector.Location = &p
	}
	return selector
}

func toWindow(w models.TimeWindow) recommendation.Window {
	return recommendation.Window{Start: w.Start.Time(), End: w.End.Time()}
}

func toAPIFactors(in []recommendation.Factor) []models.Factor {
	out := make([]models.Factor, 0, len(in))
	for _, f := range in {
		out = append(out, models.Factor{
			Dimension: f.Dimension,
			Detail:    f.Detail,
			Polarity:  string(f.Polarity),
			Magnitude: string(f.Magnitude),
		})
	}
	return out
}

func toAPIScored(in []recommendation.ScoredDestination) []models.ScoredDestination {
	out := make([]models.ScoredDestination, 0, len(in))
	for _, s := range in {
		out = append(out, models.ScoredDestination{
			Destination: models.Destination{
				ID:                   s.Destination.ID,
				Name:                 s.Destination.Name,
				Location:             toAPIPoint(s.Destination.Location),
				Categories:           fromCategories(s.Destination.Categories),
				CostLevel:            s.Destination.CostLevel,
				VisitDurationMinutes: s.Destination.VisitDuration,
				Popularity:           s.Destination.Popularity,
			},
			Score: s.Score,
			Reasoning: models.Reasoning{
				PreferenceFactors: toAPIFactors(s.Reasoning.PreferenceFactors),
				ContextFactors:    toAPIFactors(s.Reasoning.ContextFactors),
			},
		})
	}
	return out
}

func toAPIItinerary(record *itinerary.Record) models.Itinerary {
	items := make([]models.ItineraryItem, 0, len(record.Itinerary.Items))
	for _, item := range record.Itinerary.Items {
		apiItem := models.ItineraryItem{
			Type:                      string(item.Type),
			DestinationID:             item.DestinationID,
			DestinationName:           item.DestinationName,
			StartTime:                 models.Timestamp(item.StartTime),
			EndTime:                   models.Timestamp(item.EndTime),
			TravelMinutesFromPrevious: int(item.TravelTimeFromPrevious / time.Minute),
			Score:                     item.Score,
		}
		if item.Type == recommendation.ItemStop {
			p := toAPIPoint(item.Location)
			apiItem.Location = &p
		}
		items = append(items, apiItem)
	}

	return models.Itinerary{
		ID:        record.Itinerary.ID,
		Items:     items,
		CreatedAt: models.Timestamp(record.Itinerary.CreatedAt),
	}
}
