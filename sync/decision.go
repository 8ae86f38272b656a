package sync

import (
	"fmt"

	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
)

// Action is what the engine decided a pair requires.
type Action string

const (
	ActionPropagateToTarget Action = "propagate_to_target"
	ActionPropagateToSource Action = "propagate_to_source"
	ActionDeleteTarget      Action = "delete_target"
	ActionDeleteSource      Action = "delete_source"
	ActionConflict          Action = "conflict"
	ActionSkip              Action = "skip"
)

// Direction restricts which propagation directions a run may perform.
type Direction string

const (
	DirectionBoth           Direction = "both"
	DirectionSourceToTarget Direction = "source-to-target"
	DirectionTargetToSource Direction = "target-to-source"
)

// ParseDirection converts a user-supplied string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBoth, DirectionSourceToTarget, DirectionTargetToSource:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unsupported direction: %q", s)
}

// AllowsToTarget reports whether source-to-target propagation is permitted.
func (d Direction) AllowsToTarget() bool {
	return d == DirectionBoth || d == DirectionSourceToTarget
}

// AllowsToSource reports whether target-to-source propagation is permitted.
func (d Direction) AllowsToSource() bool {
	return d == DirectionBoth || d == DirectionTargetToSource
}

const (
	reasonExcludesToTarget = "direction excludes source to target"
	reasonExcludesToSource = "direction excludes target to source"
)

// Decide determines the action a pair requires. Pure function over the pair's
// current timestamps, the stored record from the last successful sync, and
// the configured direction; it never mutates the stored record.
//
// Comparing against the last synced timestamps rather than the other side's
// current timestamp is what distinguishes "I am ahead because I wrote last"
// from "both sides were edited independently since we last agreed".
func Decide(pair Pair, rec *statestore.Record, dir Direction) (Action, string) {
	switch {
	case pair.HasSource() && !pair.HasTarget():
		if rec != nil && rec.LastTargetModTime != nil {
			// The target copy existed at the last sync and is now gone.
			if dir.AllowsToSource() {
				return ActionDeleteSource, "target record deleted"
			}
			return ActionSkip, reasonExcludesToSource
		}
		if dir.AllowsToTarget() {
			return ActionPropagateToTarget, "new source record"
		}
		return ActionSkip, reasonExcludesToTarget

	case pair.HasTarget() && !pair.HasSource():
		if rec != nil && rec.LastSourceModTime != nil {
			if dir.AllowsToTarget() {
				return ActionDeleteTarget, "source record deleted"
			}
			return ActionSkip, reasonExcludesToTarget
		}
		if dir.AllowsToSource() {
			return ActionPropagateToSource, "new target record"
		}
		return ActionSkip, reasonExcludesToSource
	}

	// Both exist, never synced before: the strictly newer side wins.
	if rec == nil {
		switch {
		case pair.SourceModTime.After(pair.TargetModTime):
			if dir.AllowsToTarget() {
				return ActionPropagateToTarget, "first sync, source is newer"
			}
			return ActionSkip, reasonExcludesToTarget
		case pair.TargetModTime.After(pair.SourceModTime):
			if dir.AllowsToSource() {
				return ActionPropagateToSource, "first sync, target is newer"
			}
			return ActionSkip, reasonExcludesToSource
		}
		return ActionSkip, "same modification time, no reliable preference"
	}

	// An absent stored timestamp counts as changed.
	sourceChanged := rec.LastSourceModTime == nil || pair.SourceModTime.After(*rec.LastSourceModTime)
	targetChanged := rec.LastTargetModTime == nil || pair.TargetModTime.After(*rec.LastTargetModTime)

	switch {
	case sourceChanged && targetChanged:
		return ActionConflict, "both records modified since last sync"
	case sourceChanged:
		if dir.AllowsToTarget() {
			return ActionPropagateToTarget, "source record modified"
		}
		return ActionSkip, reasonExcludesToTarget
	case targetChanged:
		if dir.AllowsToSource() {
			return ActionPropagateToSource, "target record modified"
		}
		return ActionSkip, reasonExcludesToSource
	}
	return ActionSkip, "no changes detected"
}
