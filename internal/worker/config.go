// Package worker provides background job processing for Vacae.
package worker

import (
	"time"
)

// LearnConfig holds configuration for the preference learning job. The
// feedback window itself is owned by the feedback service.
type LearnConfig struct {
	// Concurrency is the number of users processed in parallel during a
	// batch run. Default: 3
	Concurrency int

	// Timeout is the timeout for a single user's learning pass.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultLearnConfig returns the default learning configuration.
func DefaultLearnConfig() LearnConfig {
	return LearnConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// withDefaults fills in zero-valued fields.
func (c LearnConfig) withDefaults() LearnConfig {
	def := DefaultLearnConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
