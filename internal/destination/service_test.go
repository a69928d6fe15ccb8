package destination_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/destination"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

func seedRepo() *destination.InMemoryRepository {
	repo := destination.NewInMemoryRepository()
	repo.Add(
		recommendation.Destination{ID: "a", Name: "Gallery", Location: geo.Point{Lat: 40.7580, Lng: -73.9855}},
		recommendation.Destination{ID: "b", Name: "Library", Location: geo.Point{Lat: 40.7610, Lng: -73.9780}},
		recommendation.Destination{ID: "c", Name: "Lighthouse", Location: geo.Point{Lat: 41.5000, Lng: -70.0000}},
	)
	return repo
}

func TestService_GetByIDs_PreservesOrderSkipsUnknown(t *testing.T) {
	svc := destination.NewService(destination.ServiceConfig{
		Repository: seedRepo(),
		Logger:     zerolog.Nop(),
	})

	got, err := svc.GetByIDs(context.Background(), []string{"b", "ghost", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 destinations, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected input order preserved, got %v then %v", got[0].ID, got[1].ID)
	}
}

func TestService_GetByIDs_EmptyInput(t *testing.T) {
	svc := destination.NewService(destination.ServiceConfig{
		Repository: seedRepo(),
		Logger:     zerolog.Nop(),
	})

	got, err := svc.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestService_SearchNearby(t *testing.T) {
	svc := destination.NewService(destination.ServiceConfig{
		Repository: seedRepo(),
		Logger:     zerolog.Nop(),
	})

	center := geo.Point{Lat: 40.7550, Lng: -73.9900}
	got, err := svc.SearchNearby(context.Background(), center, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 nearby destinations, got %d", len(got))
	}
	// Nearest first.
	if got[0].ID != "a" {
		t.Errorf("expected nearest destination first, got %q", got[0].ID)
	}
	for _, d := range got {
		if d.ID == "c" {
			t.Error("distant destination included in radius search")
		}
	}
}

func TestService_GetByIDs_CachesBatches(t *testing.T) {
	repo := seedRepo()
	svc := destination.NewService(destination.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
	ctx := context.Background()

	first, err := svc.GetByIDs(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the repo does not affect the memoized batch.
	repo.Add(recommendation.Destination{ID: "a", Name: "Renamed", Location: geo.Point{Lat: 40.7580, Lng: -73.9855}})

	second, err := svc.GetByIDs(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[0].Name != first[0].Name {
		t.Errorf("expected cached batch, got refetched name %q", second[0].Name)
	}
}
