package storage

import "github.com/duynhne/franchise-service/internal/core/domain"

// DefaultNamespace prefixes every key when none is configured.
const DefaultNamespace = "franchise"

// Keys builds the storage keys used by the stores.
//
//	<ns>_auth                      browser-level identity
//	<ns>_pending_actions           tab-level pending queue
//	<ns>_redirect                  tab-level pending navigation
//	<ns>_<userId>_<collection>     per-user preferences
//	<ns>_<userId>_profile          per-user profile
type Keys struct {
	Namespace string
}

// NewKeys returns Keys for namespace, falling back to DefaultNamespace.
func NewKeys(namespace string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{Namespace: namespace}
}

func (k Keys) Auth() string {
	return k.Namespace + "_auth"
}

func (k Keys) PendingActions() string {
	return k.Namespace + "_pending_actions"
}

func (k Keys) Redirect() string {
	return k.Namespace + "_redirect"
}

func (k Keys) Collection(userID string, c domain.Collection) string {
	return k.Namespace + "_" + userID + "_" + string(c)
}

func (k Keys) Profile(userID string) string {
	return k.Namespace + "_" + userID + "_profile"
}
