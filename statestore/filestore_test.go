package statestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, sourceDir, targetDir string) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"), sourceDir, targetDir)
	require.NoError(t, err)
	require.NoError(t, store.Load())
	return store
}

func timePtr(tm time.Time) *time.Time { return &tm }

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	store, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, store.Load())

	src := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tgt := src.Add(2 * time.Second)
	rec := Record{
		LastSourceModTime: timePtr(src),
		LastTargetModTime: timePtr(tgt),
		LastAction:        "propagate_to_target",
		LastSyncTime:      tgt,
	}
	store.Put("reviewer", rec)
	require.NoError(t, store.Save())

	reloaded, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.Get("reviewer")
	require.True(t, ok)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t, "/a", "/b")

	_, ok := store.Get("anything")
	assert.False(t, ok)
	assert.Empty(t, store.BaseIDs())
}

func TestFileStoreCorruptFileResets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, store.Load(), "corruption must be recovered, not raised")

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestFileStoreScopesByDirectoryPair(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	first, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, first.Load())
	first.Put("shared-id", Record{LastAction: "propagate_to_target", LastSyncTime: time.Now()})
	require.NoError(t, first.Save())

	// A different directory pair must not see the record, and saving its
	// own records must preserve the first pair's data.
	second, err := NewFileStore(path, "/c", "/d")
	require.NoError(t, err)
	require.NoError(t, second.Load())

	_, ok := second.Get("shared-id")
	assert.False(t, ok)

	second.Put("other-id", Record{LastAction: "propagate_to_source", LastSyncTime: time.Now()})
	require.NoError(t, second.Save())

	firstAgain, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, firstAgain.Load())
	_, ok = firstAgain.Get("shared-id")
	assert.True(t, ok, "saving a different pair scope must not clobber existing pairs")
}

func TestFileStoreRemove(t *testing.T) {
	store := newTestStore(t, "/a", "/b")

	store.Put("reviewer", Record{LastAction: "propagate_to_target", LastSyncTime: time.Now()})
	store.Put("planner", Record{LastAction: "propagate_to_source", LastSyncTime: time.Now()})
	assert.Equal(t, []string{"planner", "reviewer"}, store.BaseIDs())

	store.Remove("reviewer")
	_, ok := store.Get("reviewer")
	assert.False(t, ok)
	assert.Equal(t, []string{"planner"}, store.BaseIDs())
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	store, err := NewFileStore(path, "/a", "/b")
	require.NoError(t, err)
	require.NoError(t, store.Load())
	store.Put("reviewer", Record{LastAction: "propagate_to_target", LastSyncTime: time.Now()})
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}
