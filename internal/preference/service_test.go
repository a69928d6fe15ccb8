package preference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

func newTestService() (*preference.Service, *preference.InMemoryProfileClient, *preference.InMemoryLearnedRepository) {
	client := preference.NewInMemoryProfileClient()
	learned := preference.NewInMemoryLearnedRepository()
	svc := preference.NewService(preference.ServiceConfig{
		Learned:  learned,
		Profiles: client,
		Logger:   zerolog.Nop(),
	})
	return svc, client, learned
}

func TestService_UpdateCreatesProfile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cost := 3
	level := recommendation.ActivityModerate
	categories := []recommendation.CategoryID{"museums", "parks"}

	profile, err := svc.Update(ctx, "user1", &preference.UpdateRequest{
		Categories:    &categories,
		CostLevel:     &cost,
		ActivityLevel: &level,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if profile.UserID != "user1" {
		t.Errorf("expected userId user1, got %q", profile.UserID)
	}
	if profile.CostLevel != 3 {
		t.Errorf("expected cost level 3, got %d", profile.CostLevel)
	}
	if len(profile.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(profile.Categories))
	}
}

func TestService_UpdateIsPartial(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cost := 2
	categories := []recommendation.CategoryID{"museums"}
	if _, err := svc.Update(ctx, "user1", &preference.UpdateRequest{
		Categories: &categories,
		CostLevel:  &cost,
	}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	newCost := 4
	updated, err := svc.Update(ctx, "user1", &preference.UpdateRequest{CostLevel: &newCost})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if updated.CostLevel != 4 {
		t.Errorf("expected cost level 4, got %d", updated.CostLevel)
	}
	if len(updated.Categories) != 1 || updated.Categories[0] != "museums" {
		t.Errorf("expected categories preserved, got %v", updated.Categories)
	}
}

func TestService_UpdateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		input     *preference.UpdateRequest
		wantField string
	}{
		{
			name: "cost level out of range",
			input: func() *preference.UpdateRequest {
				v := 9
				return &preference.UpdateRequest{CostLevel: &v}
			}(),
			wantField: "costLevel",
		},
		{
			name: "unknown activity level",
			input: func() *preference.UpdateRequest {
				v := recommendation.ActivityLevel("extreme")
				return &preference.UpdateRequest{ActivityLevel: &v}
			}(),
			wantField: "activityLevel",
		},
		{
			name: "malformed schedule",
			input: &preference.UpdateRequest{
				Schedule: &recommendation.DaySchedule{MorningStart: "25:99"},
			},
			wantField: "schedule.morningStart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "user1", tt.input)

			var vErr *preference.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field error on %q, got %+v", tt.wantField, vErr.Errors)
			}
		})
	}
}

func TestService_GetCachesLookups(t *testing.T) {
	svc, client, _ := newTestService()
	ctx := context.Background()

	profile := recommendation.PreferenceProfile{UserID: "user1", CostLevel: 2}
	if err := client.Set(ctx, profile); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.Get(ctx, "user1"); err != nil {
		t.Fatalf("first get failed: %v", err)
	}

	// Take the backing service down; the cached entry must still serve.
	client.Err = errors.New("profile service down")

	got, err := svc.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("cached get failed: %v", err)
	}
	if got.CostLevel != 2 {
		t.Errorf("expected cached profile, got %+v", got)
	}
}

func TestLearnedSource_AbsentIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService()
	source := preference.LearnedSource{Service: svc}

	_, ok, err := source.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for absent learned profile")
	}
}

func TestStatedSource_PropagatesFailures(t *testing.T) {
	svc, client, _ := newTestService()
	client.Err = errors.New("service down")
	source := preference.StatedSource{Service: svc}

	_, ok, err := source.Get(context.Background(), "user1")
	if err == nil {
		t.Fatal("expected error when profile service is down")
	}
	if ok {
		t.Error("expected ok=false on failure")
	}
}

func TestService_SaveLearnedRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	profile := recommendation.PreferenceProfile{
		UserID:     "user1",
		Categories: []recommendation.CategoryID{"museums"},
		CostLevel:  3,
	}
	if err := svc.SaveLearned(ctx, profile); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := svc.GetLearned(ctx, "user1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CostLevel != 3 || len(got.Categories) != 1 {
		t.Errorf("unexpected learned profile: %+v", got)
	}
}
