// Package pathlock serializes mutating operations on the same file-system
// path. Without it a rename racing a content save on one project could
// interleave destructively at the OS level.
package pathlock

import (
	"path/filepath"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Table maps cleaned paths to mutexes. Entries are created on demand and
// removed once the last holder releases them.
type Table struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty lock table.
func New() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Lock acquires the mutex for path and returns the release function.
// Paths are cleaned so equivalent spellings share one lock.
func (t *Table) Lock(path string) func() {
	key := filepath.Clean(path)

	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		t.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
}

// Len returns the number of live entries, for tests.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
