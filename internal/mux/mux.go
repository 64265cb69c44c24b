// Package mux implements MuxLookup: a bidirectional map between mux
// indices (0..N) and the field names bound to them on the bit and
// position buses. Populated once during database load, then read-mostly
// for the rest of the process lifetime (spec.md §3, §4.2).
package mux

import (
	"github.com/fieldhub/fbserver/internal/fielderr"
)

// Lookup is one bus's mux table (bit bus or position bus each get their
// own instance). Values never change after database load, so callers may
// read concurrently without locking once Add calls have stopped. Add
// itself takes no lock: all Add calls must come from one goroutine.
type Lookup struct {
	size  int
	names []string // names[index], "" if unbound
	byName map[string]int
}

func New(size int) *Lookup {
	return &Lookup{
		size:   size,
		names:  make([]string, size),
		byName: make(map[string]int, size),
	}
}

// Add binds name to index. Fails if index is out of range or already
// bound, or if name is already bound to a different index.
func (l *Lookup) Add(name string, index int) error {
	if index < 0 || index >= l.size {
		return fielderr.Rangef("mux index %d out of range [0,%d)", index, l.size)
	}
	if l.names[index] != "" {
		return fielderr.Statef("mux index %d already bound to %q", index, l.names[index])
	}
	if _, ok := l.byName[name]; ok {
		return fielderr.Statef("mux name %q already bound", name)
	}
	l.names[index] = name
	l.byName[name] = index
	return nil
}

// NameOf returns the name bound to index, or "" if unbound.
func (l *Lookup) NameOf(index int) (string, bool) {
	if index < 0 || index >= l.size {
		return "", false
	}
	n := l.names[index]
	return n, n != ""
}

// IndexOf returns the mux index bound to name.
func (l *Lookup) IndexOf(name string) (int, bool) {
	idx, ok := l.byName[name]
	return idx, ok
}

// Walk calls fn(index, name) for every bound entry in index order.
func (l *Lookup) Walk(fn func(index int, name string)) {
	for i, n := range l.names {
		if n != "" {
			fn(i, n)
		}
	}
}

func (l *Lookup) Size() int { return l.size }
