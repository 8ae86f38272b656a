package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stats aggregates the outcome of one engine run. Not persisted.
type Stats struct {
	RunID    string
	DryRun   bool
	Started  time.Time
	Finished time.Time

	PropagatedToTarget int
	PropagatedToSource int
	Deletions          int
	Conflicts          int
	Skipped            int
	Errors             int
}

func NewStats(dryRun bool) *Stats {
	return &Stats{
		RunID:   uuid.NewString(),
		DryRun:  dryRun,
		Started: time.Now(),
	}
}

// Count records a successfully applied action.
func (s *Stats) Count(action Action) {
	switch action {
	case ActionPropagateToTarget:
		s.PropagatedToTarget++
	case ActionPropagateToSource:
		s.PropagatedToSource++
	case ActionDeleteTarget, ActionDeleteSource:
		s.Deletions++
	case ActionSkip:
		s.Skipped++
	}
}

// Report renders the end-of-run summary block.
func (s *Stats) Report(sourceName, targetName string) string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Summary (run %s):\n", s.RunID)
	fmt.Fprintf(&b, "  %-18s %d\n", sourceName+" -> "+targetName+":", s.PropagatedToTarget)
	fmt.Fprintf(&b, "  %-18s %d\n", targetName+" -> "+sourceName+":", s.PropagatedToSource)
	fmt.Fprintf(&b, "  %-18s %d\n", "Deletions:", s.Deletions)
	fmt.Fprintf(&b, "  %-18s %d\n", "Conflicts:", s.Conflicts)
	fmt.Fprintf(&b, "  %-18s %d\n", "Skipped:", s.Skipped)
	fmt.Fprintf(&b, "  %-18s %d\n", "Errors:", s.Errors)
	fmt.Fprint(&b, line)
	return b.String()
}
