package domain

import "time"

// ActionType is the kind of a deferred preference action.
type ActionType string

const (
	ActionLike    ActionType = "like"
	ActionDislike ActionType = "dislike"
	ActionSave    ActionType = "save"
	ActionCompare ActionType = "compare"
)

// ActionTypes lists every pending action type.
var ActionTypes = []ActionType{ActionLike, ActionDislike, ActionSave, ActionCompare}

// ParseActionType validates an action type coming from a URL.
func ParseActionType(s string) (ActionType, error) {
	for _, t := range ActionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrUnknownActionType
}

// Collection returns the preference collection an action replays into.
func (t ActionType) Collection() Collection {
	switch t {
	case ActionLike:
		return CollectionLikes
	case ActionDislike:
		return CollectionDislikes
	case ActionSave:
		return CollectionSaved
	case ActionCompare:
		return CollectionCompare
	}
	return ""
}

// ActionFor is the inverse of ActionType.Collection.
func ActionFor(c Collection) ActionType {
	switch c {
	case CollectionLikes:
		return ActionLike
	case CollectionDislikes:
		return ActionDislike
	case CollectionSaved:
		return ActionSave
	case CollectionCompare:
		return ActionCompare
	}
	return ""
}

// PendingAction is a preference action recorded for an anonymous visitor.
// At most one exists per (Type, FranchiseID).
type PendingAction struct {
	Type        ActionType `json:"type"`
	FranchiseID string     `json:"franchiseId"`
	Name        string     `json:"name"`
	Franchise   *Franchise `json:"franchise,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Snapshot returns the franchise to replay, rebuilding a minimal one when the
// action was recorded without a snapshot.
func (a PendingAction) Snapshot() Franchise {
	if a.Franchise != nil {
		return *a.Franchise
	}
	return Franchise{ID: a.FranchiseID, Name: a.Name}
}

// PendingExport summarizes the queue grouped by type.
type PendingExport struct {
	Total   int                            `json:"total"`
	Counts  map[ActionType]int             `json:"counts"`
	Actions map[ActionType][]PendingAction `json:"actions"`
}

// ReplayResult describes one drain of the pending queue.
type ReplayResult struct {
	Processed     int           `json:"processed"`
	Applied       int           `json:"applied"`
	Failed        int           `json:"failed"`
	Redirect      string        `json:"redirect,omitempty"`
	RedirectAfter time.Duration `json:"redirectAfter,omitempty"`
}
