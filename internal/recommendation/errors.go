package recommendation

import "errors"

// Core errors.
var (
	// ErrInvalidWindow is returned when the itinerary window is malformed
	// (zero times or end not after start).
	ErrInvalidWindow = errors.New("invalid itinerary window")

	// ErrMissingStartLocation is returned when the starting location is
	// absent or out of range.
	ErrMissingStartLocation = errors.New("missing or invalid start location")

	// ErrAllDestinationsRemoved is returned when a refinement removes every
	// destination from the candidate set.
	ErrAllDestinationsRemoved = errors.New("cannot refine with all destinations removed")

	// ErrPreferenceUnavailable signals that a preference source could not
	// produce a profile. It is absorbed by the scorer's popularity-only
	// fallback and never surfaced to callers.
	ErrPreferenceUnavailable = errors.New("preference source unavailable")
)
