package recommendation

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
)

// Default blend weights for preference vs popularity.
const (
	DefaultPreferenceWeight = 0.6
	DefaultPopularityWeight = 0.4
)

// PreferenceSource resolves a user's preference profile. ok=false with a nil
// error means no profile exists for the user; an error means the source is
// unavailable.
type PreferenceSource interface {
	Get(ctx context.Context, userID string) (PreferenceProfile, bool, error)
}

// ScorerConfig holds configuration for the scorer.
type ScorerConfig struct {
	// Learned provides learner-produced profiles. Takes precedence over
	// Profiles when a learned profile exists. Optional.
	Learned PreferenceSource

	// Profiles provides explicitly stated profiles. Optional.
	Profiles PreferenceSource

	// Matcher scores destinations against profiles. Required.
	Matcher *PreferenceMatcher

	// Adjuster applies contextual re-ranking. Required.
	Adjuster *ContextualAdjuster

	// PreferenceWeight and PopularityWeight blend the base score.
	// Defaults: 0.6 / 0.4.
	PreferenceWeight float64
	PopularityWeight float64

	// Logger for per-item warnings.
	Logger zerolog.Logger
}

// Scorer orchestrates preference matching, popularity and contextual
// adjustment into one ranked candidate list with reasoning trails. It holds
// no cross-request state and is safe for concurrent use.
type Scorer struct {
	learned    PreferenceSource
	profiles   PreferenceSource
	matcher    *PreferenceMatcher
	adjuster   *ContextualAdjuster
	prefWeight float64
	popWeight  float64
	logger     zerolog.Logger
}

// NewScorer creates a scorer from config, applying defaults.
func NewScorer(cfg ScorerConfig) *Scorer {
	prefWeight := cfg.PreferenceWeight
	popWeight := cfg.PopularityWeight
	if prefWeight == 0 && popWeight == 0 {
		prefWeight = DefaultPreferenceWeight
		popWeight = DefaultPopularityWeight
	}

	return &Scorer{
		learned:    cfg.Learned,
		profiles:   cfg.Profiles,
		matcher:    cfg.Matcher,
		adjuster:   cfg.Adjuster,
		prefWeight: prefWeight,
		popWeight:  popWeight,
		logger:     cfg.Logger,
	}
}

// Score ranks the supplied destinations for a user in the given context,
// descending by final score. Ties keep insertion order (stable sort).
//
// Preference resolution: learned profile, then stored profile, then the
// neutral default. If every preference source errors, ranking degrades to
// popularity-only with a "default preferences used" reasoning entry rather
// than failing. Malformed destination records are skipped with a warning.
func (s *Scorer) Score(ctx context.Context, userID string, destinations []Destination, rctx Context) []ScoredDestination {
	profile, popularityOnly := s.resolveProfile(ctx, userID)

	scored := make([]ScoredDestination, 0, len(destinations))
	for _, dest := range destinations {
		if dest.ID == "" || !dest.Location.Valid() {
			s.logger.Warn().
				Str("destination_id", dest.ID).
				Msg("skipping malformed destination record")
			continue
		}

		var reasoning Reasoning
		base := 0.0

		if popularityOnly {
			base = dest.Popularity / 5
			reasoning.PreferenceFactors = append(reasoning.PreferenceFactors, Factor{
				Dimension: "preferences",
				Detail:    "default preferences used",
			})
		} else {
			prefScore, prefFactors := s.matcher.Match(dest, profile)
			base = prefScore*s.prefWeight + dest.Popularity/5*s.popWeight
			reasoning.PreferenceFactors = prefFactors
		}

		multiplier, ctxFactors := s.adjuster.Adjust(dest, rctx)
		reasoning.ContextFactors = ctxFactors

		scored = append(scored, ScoredDestination{
			Destination: dest,
			Score:       base * multiplier,
			Reasoning:   reasoning,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// resolveProfile picks the preference input for a scoring call. The second
// return is true when every configured source errored and ranking must fall
// back to popularity only. A clean "no profile yet" answer from any source
// keeps the neutral default in play even if the other source errored.
func (s *Scorer) resolveProfile(ctx context.Context, userID string) (PreferenceProfile, bool) {
	sources := 0
	failures := 0

	if s.learned != nil {
		sources++
		profile, ok, err := s.learned.Get(ctx, userID)
		if err != nil {
			failures++
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("learned preference lookup failed")
		} else if ok {
			return profile, false
		}
	}

	if s.profiles != nil {
		sources++
		profile, ok, err := s.profiles.Get(ctx, userID)
		if err != nil {
			failures++
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed")
		} else if ok {
			return profile, false
		}
	}

	return PreferenceProfile{}, sources > 0 && failures == sources
}
