package adapters

import (
	"fmt"
	"sort"
)

// Registry maps format names and file shapes to adapters. Pure lookup table;
// it performs no I/O.
type Registry struct {
	adapters map[string]FormatAdapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: map[string]FormatAdapter{}}
}

// Register adds an adapter. Registering the same format name twice is an
// error.
func (r *Registry) Register(a FormatAdapter) error {
	name := a.Name()
	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("format %q is already registered", name)
	}
	r.adapters[name] = a
	return nil
}

// Get returns the adapter for a format name.
func (r *Registry) Get(name string) (FormatAdapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Formats lists registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the adapter whose file-matching predicate accepts path.
// Adapters are consulted in sorted name order so detection is deterministic.
func (r *Registry) Detect(path string) (FormatAdapter, bool) {
	for _, name := range r.Formats() {
		if a := r.adapters[name]; a.CanHandle(path) {
			return a, true
		}
	}
	return nil, false
}
