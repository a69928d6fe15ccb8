// Package preference manages user preference profiles: the explicitly stated
// profile held by the external profile service and the learner-produced
// profile stored locally.
package preference

import (
	"errors"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("preference profile not found")
)

// UpdateRequest is an allow-listed partial update of a stored profile. Only
// the fields present here can be changed; nil fields are left untouched.
// Unknown payload fields are dropped at decode time.
type UpdateRequest struct {
	Categories              *[]recommendation.CategoryID   `json:"categories,omitempty"`
	CostLevel               *int                           `json:"costLevel,omitempty"`
	ActivityLevel           *recommendation.ActivityLevel  `json:"activityLevel,omitempty"`
	ExcludedActivities      *[]recommendation.CategoryID   `json:"excludedActivities,omitempty"`
	PreferredTransportation *[]geo.TransportMode           `json:"preferredTransportation,omitempty"`
	Schedule                *recommendation.DaySchedule    `json:"schedule,omitempty"`
}
