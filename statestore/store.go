// Package statestore persists the sync history that lets the decision engine
// distinguish "one side moved ahead" from "both sides were edited". State is
// partitioned by directory pair so unrelated sync jobs sharing one file do
// not interfere.
package statestore

import "time"

// Record holds what was observed at the most recent successful sync of one
// record pair. A nil timestamp means the file did not exist on that side at
// that sync.
type Record struct {
	LastSourceModTime *time.Time `json:"source_mtime"`
	LastTargetModTime *time.Time `json:"target_mtime"`
	LastAction        string     `json:"last_action"`
	LastSyncTime      time.Time  `json:"last_sync_time"`
}

// Store is the persisted sync history for one directory pair.
//
// Single-writer per invocation: there is no locking against concurrent
// external processes, and a second run racing on the same file is out of
// contract (last Save wins).
type Store interface {
	// Load reads prior state from disk. Idempotent; a missing or corrupt
	// file yields empty state, never an error.
	Load() error

	Get(baseID string) (Record, bool)
	Put(baseID string, rec Record)
	Remove(baseID string)

	// BaseIDs lists tracked base identifiers in sorted order.
	BaseIDs() []string

	// Save atomically replaces the persisted representation.
	Save() error

	Path() string
}
