package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultFileName is the state file used when no custom path is configured,
// relative to the user's home directory.
const DefaultFileName = ".agent_sync_state.json"

// DefaultPath returns the state file path in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

var _ Store = (*FileStore)(nil)

// FileStore is a JSON file holding sync records for any number of directory
// pairs. One FileStore instance is scoped to a single pair; records belonging
// to other pairs are carried through Load and Save untouched.
type FileStore struct {
	path    string
	pairKey string
	state   fileState
}

type fileState struct {
	SyncPairs map[string]*pairState `json:"sync_pairs"`
}

type pairState struct {
	LastSync *time.Time         `json:"last_sync"`
	Files    map[string]*Record `json:"files"`
}

// NewFileStore creates a store at path scoped to the directory pair. The pair
// key is derived from the resolved absolute paths of both directories.
func NewFileStore(path, sourceDir, targetDir string) (*FileStore, error) {
	srcAbs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	tgtAbs, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target directory: %w", err)
	}

	return &FileStore{
		path:    path,
		pairKey: srcAbs + "|" + tgtAbs,
		state:   fileState{SyncPairs: map[string]*pairState{}},
	}, nil
}

func (f *FileStore) Path() string { return f.path }

// Load reads the state file. Missing or malformed content resets to empty
// state; corruption is recovered, never raised.
func (f *FileStore) Load() error {
	f.state = fileState{SyncPairs: map[string]*pairState{}}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}

	var loaded fileState
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.SyncPairs == nil {
		return nil
	}
	for _, pair := range loaded.SyncPairs {
		if pair.Files == nil {
			pair.Files = map[string]*Record{}
		}
	}
	f.state = loaded
	return nil
}

func (f *FileStore) Get(baseID string) (Record, bool) {
	pair, ok := f.state.SyncPairs[f.pairKey]
	if !ok {
		return Record{}, false
	}
	rec, ok := pair.Files[baseID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func (f *FileStore) Put(baseID string, rec Record) {
	pair := f.pair()
	stored := rec
	pair.Files[baseID] = &stored

	now := time.Now()
	pair.LastSync = &now
}

func (f *FileStore) Remove(baseID string) {
	if pair, ok := f.state.SyncPairs[f.pairKey]; ok {
		delete(pair.Files, baseID)
	}
}

func (f *FileStore) BaseIDs() []string {
	pair, ok := f.state.SyncPairs[f.pairKey]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(pair.Files))
	for id := range pair.Files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save writes the full state through a temp file and rename, so the persisted
// representation is replaced atomically and never left partially written.
func (f *FileStore) Save() error {
	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".agent_sync_state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (f *FileStore) pair() *pairState {
	if f.state.SyncPairs == nil {
		f.state.SyncPairs = map[string]*pairState{}
	}
	pair, ok := f.state.SyncPairs[f.pairKey]
	if !ok {
		pair = &pairState{Files: map[string]*Record{}}
		f.state.SyncPairs[f.pairKey] = pair
	}
	return pair
}
