package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCollection(t *testing.T) {
	for _, c := range Collections {
		got, err := ParseCollection(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCollection("wishlist")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestParseActionType(t *testing.T) {
	got, err := ParseActionType("compare")
	require.NoError(t, err)
	assert.Equal(t, ActionCompare, got)

	_, err = ParseActionType("Like")
	assert.ErrorIs(t, err, ErrUnknownActionType)
}

func TestActionCollectionRoundTrip(t *testing.T) {
	for _, a := range ActionTypes {
		assert.Equal(t, a, ActionFor(a.Collection()), string(a))
	}
	assert.Equal(t, Collection(""), ActionType("share").Collection())
	assert.Equal(t, ActionType(""), ActionFor("wishlist"))
}

func TestPendingActionSnapshot(t *testing.T) {
	full := &Franchise{ID: "f1", Name: "Acme", Sector: "Food"}
	assert.Equal(t, *full, PendingAction{Type: ActionLike, FranchiseID: "f1", Franchise: full}.Snapshot())

	bare := PendingAction{Type: ActionSave, FranchiseID: "f2", Name: "Beta"}
	assert.Equal(t, Franchise{ID: "f2", Name: "Beta"}, bare.Snapshot())
}
