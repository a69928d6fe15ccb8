package models

// DaySchedule holds preferred activity hours in HH:mm local time.
type DaySchedule struct {
	MorningStart string `json:"morningStart"`
	EveningEnd   string `json:"eveningEnd"`
}

// PreferenceProfile is a preference profile as returned to clients.
type PreferenceProfile struct {
	Categories              []string        `json:"categories"`
	CostLevel               int             `json:"costLevel"`
	ActivityLevel           string          `json:"activityLevel"`
	ExcludedActivities      []string        `json:"excludedActivities,omitempty"`
	PreferredTransportation []TransportMode `json:"preferredTransportation,omitempty"`
	Schedule                *DaySchedule    `json:"schedule,omitempty"`
	UpdatedAt               Timestamp       `json:"updatedAt"`
}

// PreferenceResponse pairs the stated profile with the learner-produced one.
// Either may be absent for a new user.
type PreferenceResponse struct {
	Stated  *PreferenceProfile `json:"stated,omitempty"`
	Learned *PreferenceProfile `json:"learned,omitempty"`
}
