package domain

import "time"

// Engagement event names tracked by the service.
const (
	EventSignIn           = "sign_in"
	EventSignOut          = "sign_out"
	EventPreferenceAdd    = "preference_add"
	EventPreferenceRemove = "preference_remove"
	EventPendingRecorded  = "pending_action_recorded"
	EventPendingReplayed  = "pending_actions_replayed"
	EventProfileUpdated   = "profile_updated"
)

// EngagementEvent is sent to the engagement analytics service.
type EngagementEvent struct {
	Name        string            `json:"event"`
	UserID      string            `json:"userId,omitempty"`
	FranchiseID string            `json:"franchiseId,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Contact is the identity upserted into the CRM on sign-in.
type Contact struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
