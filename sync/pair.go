// Package sync implements the bidirectional synchronization engine: pairing
// records across two directories, deciding what each pair needs based on
// remembered sync history, resolving conflicting edits, and applying the
// results.
package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZacheryGlass/coding-agent-settings-sync/adapters"
	"github.com/ZacheryGlass/coding-agent-settings-sync/canonical"
)

// ErrNotDirectory reports a location path that exists but is not a directory.
var ErrNotDirectory = errors.New("path exists but is not a directory")

// Pair identifies one logical configuration record as it may exist on each
// side. An empty path means the record does not currently exist there; the
// matching mod time is only meaningful when the path is set.
//
// A pair is only constructed when a file exists on at least one side.
type Pair struct {
	BaseID string

	SourcePath    string
	TargetPath    string
	SourceModTime time.Time
	TargetModTime time.Time
}

func (p Pair) HasSource() bool { return p.SourcePath != "" }
func (p Pair) HasTarget() bool { return p.TargetPath != "" }

// Locate scans both directories and groups files into pairs keyed by base
// identifier, derived by stripping each side's native suffix. Files neither
// adapter recognizes are ignored. A missing directory yields no entries for
// that side; a path that exists but is not a directory is an error.
//
// Pairs are returned sorted by BaseID so runs over an unchanged filesystem
// produce identical ordering.
func Locate(sourceDir, targetDir string, source, target adapters.FormatAdapter, ct canonical.ConfigType) ([]Pair, error) {
	byID := map[string]*Pair{}

	err := scanDir(sourceDir, source, ct, func(baseID, path string, mtime time.Time) {
		p := pairFor(byID, baseID)
		p.SourcePath = path
		p.SourceModTime = mtime
	})
	if err != nil {
		return nil, err
	}

	err = scanDir(targetDir, target, ct, func(baseID, path string, mtime time.Time) {
		p := pairFor(byID, baseID)
		p.TargetPath = path
		p.TargetModTime = mtime
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(byID))
	for _, p := range byID {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].BaseID < pairs[j].BaseID })
	return pairs, nil
}

func pairFor(byID map[string]*Pair, baseID string) *Pair {
	p, ok := byID[baseID]
	if !ok {
		p = &Pair{BaseID: baseID}
		byID[baseID] = p
	}
	return p
}

func scanDir(dir string, a adapters.FormatAdapter, ct canonical.ConfigType, found func(baseID, path string, mtime time.Time)) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	ext := a.Extension(ct)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ext) || !a.CanHandle(name) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		found(strings.TrimSuffix(name, ext), filepath.Join(dir, name), fi.ModTime())
	}
	return nil
}
