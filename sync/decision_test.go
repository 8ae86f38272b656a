package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/ZacheryGlass/coding-agent-settings-sync/statestore"
)

var decisionBase = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func at(offsetSeconds int64) time.Time {
	return decisionBase.Add(time.Duration(offsetSeconds) * time.Second)
}

func atPtr(offsetSeconds int64) *time.Time {
	t := at(offsetSeconds)
	return &t
}

func TestDecideTable(t *testing.T) {
	tests := []struct {
		name       string
		pair       Pair
		rec        *statestore.Record
		dir        Direction
		wantAction Action
	}{
		{
			name:       "new source record",
			pair:       Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0)},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToTarget,
		},
		{
			name:       "new source record, direction excludes",
			pair:       Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0)},
			dir:        DirectionTargetToSource,
			wantAction: ActionSkip,
		},
		{
			name:       "new target record",
			pair:       Pair{BaseID: "foo", TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToSource,
		},
		{
			name: "source deleted, propagate deletion",
			pair: Pair{BaseID: "foo", TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(-10),
				LastTargetModTime: atPtr(-10),
			},
			dir:        DirectionBoth,
			wantAction: ActionDeleteTarget,
		},
		{
			name: "source deleted, direction excludes deletion",
			pair: Pair{BaseID: "foo", TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(-10),
				LastTargetModTime: atPtr(-10),
			},
			dir:        DirectionTargetToSource,
			wantAction: ActionSkip,
		},
		{
			name: "target deleted, propagate deletion",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(-10),
				LastTargetModTime: atPtr(-10),
			},
			dir:        DirectionBoth,
			wantAction: ActionDeleteSource,
		},
		{
			name:       "first sync, source newer",
			pair:       Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(5), TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToTarget,
		},
		{
			name:       "first sync, target newer",
			pair:       Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0), TargetPath: "b/foo.agent.md", TargetModTime: at(5)},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToSource,
		},
		{
			name:       "first sync, same mtime",
			pair:       Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0), TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			dir:        DirectionBoth,
			wantAction: ActionSkip,
		},
		{
			name: "only source modified",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(20), TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(10),
				LastTargetModTime: atPtr(0),
			},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToTarget,
		},
		{
			name: "only target modified",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0), TargetPath: "b/foo.agent.md", TargetModTime: at(20)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(0),
				LastTargetModTime: atPtr(10),
			},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToSource,
		},
		{
			name: "both modified is a conflict",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(20), TargetPath: "b/foo.agent.md", TargetModTime: at(30)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(10),
				LastTargetModTime: atPtr(10),
			},
			dir:        DirectionBoth,
			wantAction: ActionConflict,
		},
		{
			name: "absent stored timestamp counts as changed",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(0), TargetPath: "b/foo.agent.md", TargetModTime: at(0)},
			rec: &statestore.Record{
				LastTargetModTime: atPtr(0),
			},
			dir:        DirectionBoth,
			wantAction: ActionPropagateToTarget,
		},
		{
			name: "no changes",
			pair: Pair{BaseID: "foo", SourcePath: "a/foo.md", SourceModTime: at(10), TargetPath: "b/foo.agent.md", TargetModTime: at(10)},
			rec: &statestore.Record{
				LastSourceModTime: atPtr(10),
				LastTargetModTime: atPtr(10),
			},
			dir:        DirectionBoth,
			wantAction: ActionSkip,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, reason := Decide(tc.pair, tc.rec, tc.dir)
			assert.Equal(t, tc.wantAction, action, "reason: %s", reason)
			assert.NotEmpty(t, reason)
		})
	}
}

// One-sided pairs with direction both and no history always propagate toward
// the empty side, never skip or conflict.
func TestDecideOneSidedAlwaysPropagates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mtime := at(rapid.Int64Range(-1e6, 1e6).Draw(t, "mtime"))
		onSource := rapid.Bool().Draw(t, "onSource")

		pair := Pair{BaseID: "rec"}
		if onSource {
			pair.SourcePath = "a/rec.md"
			pair.SourceModTime = mtime
		} else {
			pair.TargetPath = "b/rec.agent.md"
			pair.TargetModTime = mtime
		}

		action, _ := Decide(pair, nil, DirectionBoth)
		if onSource && action != ActionPropagateToTarget {
			t.Fatalf("expected propagate to target, got %v", action)
		}
		if !onSource && action != ActionPropagateToSource {
			t.Fatalf("expected propagate to source, got %v", action)
		}
	})
}

// With no stored record, the strictly newer side propagates and equal
// timestamps skip.
func TestDecideFirstSyncNewerWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := at(rapid.Int64Range(-1e6, 1e6).Draw(t, "src"))
		tgt := at(rapid.Int64Range(-1e6, 1e6).Draw(t, "tgt"))

		pair := Pair{
			BaseID:     "rec",
			SourcePath: "a/rec.md", SourceModTime: src,
			TargetPath: "b/rec.agent.md", TargetModTime: tgt,
		}

		action, _ := Decide(pair, nil, DirectionBoth)
		switch {
		case src.After(tgt):
			if action != ActionPropagateToTarget {
				t.Fatalf("source newer: expected propagate to target, got %v", action)
			}
		case tgt.After(src):
			if action != ActionPropagateToSource {
				t.Fatalf("target newer: expected propagate to source, got %v", action)
			}
		default:
			if action != ActionSkip {
				t.Fatalf("equal mtimes: expected skip, got %v", action)
			}
		}
	})
}

// Whenever both sides changed relative to the stored record the result is a
// conflict, regardless of which absolute timestamp is larger.
func TestDecideBothChangedIsConflict(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		storedSrc := rapid.Int64Range(0, 1e5).Draw(t, "storedSrc")
		storedTgt := rapid.Int64Range(0, 1e5).Draw(t, "storedTgt")
		srcDelta := rapid.Int64Range(1, 1e5).Draw(t, "srcDelta")
		tgtDelta := rapid.Int64Range(1, 1e5).Draw(t, "tgtDelta")

		pair := Pair{
			BaseID:     "rec",
			SourcePath: "a/rec.md", SourceModTime: at(storedSrc + srcDelta),
			TargetPath: "b/rec.agent.md", TargetModTime: at(storedTgt + tgtDelta),
		}
		rec := &statestore.Record{
			LastSourceModTime: atPtr(storedSrc),
			LastTargetModTime: atPtr(storedTgt),
		}

		for _, dir := range []Direction{DirectionBoth, DirectionSourceToTarget, DirectionTargetToSource} {
			action, _ := Decide(pair, rec, dir)
			if action != ActionConflict {
				t.Fatalf("direction %v: expected conflict, got %v", dir, action)
			}
		}
	})
}

func TestParseDirection(t *testing.T) {
	for _, valid := range []string{"both", "source-to-target", "target-to-source"} {
		d, err := ParseDirection(valid)
		assert.NoError(t, err)
		assert.Equal(t, Direction(valid), d)
	}
	_, err := ParseDirection("claude-to-copilot")
	assert.Error(t, err)
}
