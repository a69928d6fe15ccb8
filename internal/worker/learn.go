package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/destination"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// LearnJob re-estimates learned preference profiles from recent feedback.
type LearnJob struct {
	config LearnConfig
	logger zerolog.Logger

	feedbackService    *feedback.Service
	destinationService *destination.Service
	preferenceService  *preference.Service
	learner            *recommendation.PreferenceLearner

	// Metrics
	metrics *LearnMetrics
}

// LearnMetrics tracks learning job statistics.
type LearnMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns      int64
	UsersProcessed int64
	UsersUpdated   int64
	UsersFailed    int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// LearnJobConfig holds configuration for creating a LearnJob.
type LearnJobConfig struct {
	Config             LearnConfig
	Logger             zerolog.Logger
	FeedbackService    *feedback.Service
	DestinationService *destination.Service
	PreferenceService  *preference.Service
}

// NewLearnJob creates a new learning job processor.
func NewLearnJob(cfg LearnJobConfig) *LearnJob {
	return &LearnJob{
		config:             cfg.Config.withDefaults(),
		logger:             cfg.Logger,
		feedbackService:    cfg.FeedbackService,
		destinationService: cfg.DestinationService,
		preferenceService:  cfg.PreferenceService,
		learner:            recommendation.NewPreferenceLearner(cfg.Logger),
		metrics:            &LearnMetrics{},
	}
}

// LearnResult contains the result of a batch learning run.
type LearnResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalUsers int
	Updated    int
	Skipped    int
	Failed     int
	Errors     []LearnError
}

// LearnError represents a failed learning pass for one user.
type LearnError struct {
	UserID string
	Error  string
}

// LearnUser runs one learning pass for a single user: it joins the user's
// recent feedback with destination attributes, derives a revised profile and
// persists it. A window with no usable feedback is a no-op.
func (j *LearnJob) LearnUser(ctx context.Context, userID string) (bool, error) {
	window, err := j.feedbackService.LearningWindow(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(window) == 0 {
		j.logger.Debug().Str("user_id", userID).Msg("no feedback in window, skipping")
		return false, nil
	}

	destinations, err := j.resolveDestinations(ctx, window)
	if err != nil {
		return false, err
	}

	previous, err := j.seedProfile(ctx, userID)
	if err != nil {
		return false, err
	}

	result := j.learner.Learn(previous, window, destinations)
	if !result.Updated {
		j.logger.Debug().Str("user_id", userID).Msg("no usable feedback, profile unchanged")
		return false, nil
	}

	result.Profile.UserID = userID
	if err := j.preferenceService.SaveLearned(ctx, result.Profile); err != nil {
		return false, err
	}

	j.logger.Info().
		Str("user_id", userID).
		Int("samples_used", result.SamplesUsed).
		Int("categories", len(result.Profile.Categories)).
		Msg("learned profile updated")

	return true, nil
}

// Run executes a batch learning pass over every user with feedback in the
// window.
func (j *LearnJob) Run(ctx context.Context) *LearnResult {
	startTime := time.Now()
	result := &LearnResult{StartTime: startTime}

	userIDs, err := j.feedbackService.ActiveUsers(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list active users")
		result.Errors = append(result.Errors, LearnError{Error: err.Error()})
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result
	}
	result.TotalUsers = len(userIDs)

	j.logger.Info().
		Int("total_users", result.TotalUsers).
		Int("concurrency", j.config.Concurrency).
		Msg("starting preference learning job")

	usersChan := make(chan string, len(userIDs))
	resultsChan := make(chan userResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.learnWorker(ctx, usersChan, resultsChan)
		}()
	}

	for _, id := range userIDs {
		usersChan <- id
	}
	close(usersChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for ur := range resultsChan {
		switch {
		case ur.err != nil:
			result.Failed++
			result.Errors = append(result.Errors, LearnError{UserID: ur.userID, Error: ur.err.Error()})
		case ur.updated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("preference learning job completed")

	return result
}

type userResult struct {
	userID  string
	updated bool
	err     error
}

func (j *LearnJob) learnWorker(ctx context.Context, users <-chan string, results chan<- userResult) {
	for userID := range users {
		select {
		case <-ctx.Done():
			return
		default:
			userCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
			updated, err := j.LearnUser(userCtx, userID)
			cancel()
			results <- userResult{userID: userID, updated: updated, err: err}
		}
	}
}

// resolveDestinations loads the destinations referenced by the feedback
// window, keyed by id. Feedback for destinations no longer in the catalog is
// left for the learner to skip.
func (j *LearnJob) resolveDestinations(ctx context.Context, window []recommendation.Feedback) (map[string]recommendation.Destination, error) {
	seen := make(map[string]struct{}, len(window))
	ids := make([]string, 0, len(window))
	for _, fb := range window {
		if _, ok := seen[fb.DestinationID]; ok {
			continue
		}
		seen[fb.DestinationID] = struct{}{}
		ids = append(ids, fb.DestinationID)
	}

	destinations, err := j.destinationService.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]recommendation.Destination, len(destinations))
	for _, d := range destinations {
		byID[d.ID] = d
	}
	return byID, nil
}

// seedProfile picks the starting profile for a learning pass: the previous
// learned profile when one exists, otherwise the stated profile, otherwise
// an empty one. A stated-profile lookup failure degrades to the empty seed
// rather than failing the pass.
func (j *LearnJob) seedProfile(ctx context.Context, userID string) (recommendation.PreferenceProfile, error) {
	learned, err := j.preferenceService.GetLearned(ctx, userID)
	if err == nil {
		return learned, nil
	}
	if !errors.Is(err, preference.ErrProfileNotFound) {
		return recommendation.PreferenceProfile{}, err
	}

	stated, err := j.preferenceService.Get(ctx, userID)
	if err == nil {
		return stated, nil
	}
	if !errors.Is(err, preference.ErrProfileNotFound) {
		j.logger.Warn().Err(err).Str("user_id", userID).Msg("stated profile unavailable, seeding from empty profile")
	}

	return recommendation.PreferenceProfile{UserID: userID}, nil
}

func (j *LearnJob) updateMetrics(result *LearnResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.UsersProcessed += int64(result.TotalUsers)
	j.metrics.UsersUpdated += int64(result.Updated)
	j.metrics.UsersFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *LearnJob) GetMetrics() LearnMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return LearnMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		UsersProcessed:  j.metrics.UsersProcessed,
		UsersUpdated:    j.metrics.UsersUpdated,
		UsersFailed:     j.metrics.UsersFailed,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *LearnJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"users_processed":   m.UsersProcessed,
		"users_updated":     m.UsersUpdated,
		"users_failed":      m.UsersFailed,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
