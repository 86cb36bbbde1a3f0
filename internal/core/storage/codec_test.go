package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSaveAndLoadJSON(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, SaveJSON(ctx, m, "k", []item{{ID: "1", Name: "Acme"}}))

	var got []item
	found, err := LoadJSON(ctx, m, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []item{{ID: "1", Name: "Acme"}}, got)
}

func TestLoadJSON_Absent(t *testing.T) {
	var got []item
	found, err := LoadJSON(context.Background(), NewMemory(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestLoadJSON_MalformedValueIsRemoved(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetItem(ctx, "k", "{not json"))

	var got []item
	found, err := LoadJSON(ctx, m, "k", &got)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrMalformedValue)

	_, stillThere, err := m.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, stillThere)
}

type failingStorage struct{ err error }

func (f failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, f.err
}
func (f failingStorage) SetItem(context.Context, string, string) error { return f.err }
func (f failingStorage) RemoveItem(context.Context, string) error      { return f.err }

func TestCodec_PropagatesBackendErrors(t *testing.T) {
	boom := errors.New("boom")
	s := failingStorage{err: boom}

	var got []item
	_, err := LoadJSON(context.Background(), s, "k", &got)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMalformedValue)

	assert.ErrorIs(t, SaveJSON(context.Background(), s, "k", got), boom)
}
