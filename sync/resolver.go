package sync

import (
	"fmt"
	"time"
)

// Resolution is a conflict resolver's verdict.
type Resolution int

const (
	ResolutionSkip Resolution = iota
	ResolutionUseSource
	ResolutionUseTarget
)

// Action maps the resolution onto the propagation it implies.
func (r Resolution) Action() Action {
	switch r {
	case ResolutionUseSource:
		return ActionPropagateToTarget
	case ResolutionUseTarget:
		return ActionPropagateToSource
	}
	return ActionSkip
}

// Conflict carries the identifying information a resolver needs to choose a
// side: both candidate paths and their current modification times.
type Conflict struct {
	BaseID        string
	SourcePath    string
	TargetPath    string
	SourceModTime time.Time
	TargetModTime time.Time
}

// ConflictResolver chooses a side for a conflicting pair. It is invoked
// synchronously and the engine blocks until it returns; this is the only
// suspension point in a run. Returning an error fails the pair without
// aborting the run.
type ConflictResolver func(Conflict) (Resolution, error)

// NewestWins resolves automatically in favor of the side with the strictly
// greater modification time. Equal timestamps propagate neither side.
func NewestWins() ConflictResolver {
	return func(c Conflict) (Resolution, error) {
		switch {
		case c.SourceModTime.After(c.TargetModTime):
			return ResolutionUseSource, nil
		case c.TargetModTime.After(c.SourceModTime):
			return ResolutionUseTarget, nil
		}
		return ResolutionSkip, nil
	}
}

// FailOnConflict is the resolver for non-interactive runs without an
// automatic policy: it reports the conflict clearly instead of hanging on a
// prompt that nobody can answer.
func FailOnConflict() ConflictResolver {
	return func(c Conflict) (Resolution, error) {
		return ResolutionSkip, fmt.Errorf(
			"conflict on %q: both %s (modified %s) and %s (modified %s) changed since last sync; re-run with --force or from a terminal",
			c.BaseID,
			c.SourcePath, c.SourceModTime.Format(time.RFC3339),
			c.TargetPath, c.TargetModTime.Format(time.RFC3339),
		)
	}
}
