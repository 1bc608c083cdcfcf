package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestSession_SetPersistsAndHydrates(t *testing.T) {
	path := slotPath(t)
	s := NewSession(NewFileSlot(path))

	require.False(t, s.Authenticated())
	require.NoError(t, s.Set(&Principal{ID: "u1", Name: "Ana", Email: "ana@example.com"}, "tok123"))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok123", s.Token())

	// A fresh session over the same slot resumes where we left off.
	resumed := NewSession(NewFileSlot(path))
	assert.True(t, resumed.Authenticated())
	assert.Equal(t, "tok123", resumed.Token())
	require.NotNil(t, resumed.Principal())
	assert.Equal(t, "u1", resumed.Principal().ID)
}

func TestSession_ClearDropsStateAndSlot(t *testing.T) {
	path := slotPath(t)
	s := NewSession(NewFileSlot(path))
	require.NoError(t, s.Set(&Principal{ID: "u1"}, "tok123"))

	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Principal())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSession_NilSlot(t *testing.T) {
	s := NewSession(nil)

	require.NoError(t, s.Set(&Principal{ID: "u1"}, "tok123"))
	assert.True(t, s.Authenticated())
	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())
}

func TestFileSlot_LoadMissingReturnsEmptyState(t *testing.T) {
	slot := NewFileSlot(slotPath(t))

	st, err := slot.Load()
	require.NoError(t, err)
	assert.Nil(t, st.Principal)
	assert.Empty(t, st.Token)
}

func TestFileSlot_ClearMissingIsNoop(t *testing.T) {
	slot := NewFileSlot(slotPath(t))
	assert.NoError(t, slot.Clear())
}

func TestFileSlot_SaveWritesOwnerOnly(t *testing.T) {
	path := slotPath(t)
	slot := NewFileSlot(path)
	require.NoError(t, slot.Save(&State{Token: "tok123"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
