// Package enum implements name<->value tables used by the enum Type and by
// classes such as pos_out's CaptureSubtype. An Enumeration is either
// static, built once from a borrowed entry list, or dynamic, filled in by
// successive Add calls (e.g. while parsing a database file's enum label
// lines) up to a declared capacity.
package enum

import (
	"sort"
	"strconv"

	"github.com/fieldhub/fbserver/internal/fielderr"
)

type Entry struct {
	Name  string
	Value uint32
}

type Enumeration struct {
	entries  []Entry // insertion order for dynamic; table order for static
	byName   map[string]uint32
	byValue  map[uint32]string
	capacity int
}

// NewStatic builds an immutable Enumeration from a fixed entry list.
func NewStatic(entries []Entry) *Enumeration {
	e := &Enumeration{
		entries: entries,
		byName:  make(map[string]uint32, len(entries)),
		byValue: make(map[uint32]string, len(entries)),
	}
	for _, ent := range entries {
		e.byName[ent.Name] = ent.Value
		e.byValue[ent.Value] = ent.Name
	}
	return e
}

// NewDynamic starts empty with room for capacity entries.
func NewDynamic(capacity int) *Enumeration {
	return &Enumeration{
		byName:   make(map[string]uint32, capacity),
		byValue:  make(map[uint32]string, capacity),
		capacity: capacity,
	}
}

// Add binds name to value. Fails on duplicate name, duplicate value, or a
// value the declared capacity cannot hold.
func (e *Enumeration) Add(name string, value uint32) error {
	if e.capacity > 0 && int(value) >= e.capacity {
		return fielderr.Rangef("enum value %d out of range [0,%d)", value, e.capacity)
	}
	if _, ok := e.byName[name]; ok {
		return fielderr.Statef("enum: duplicate name %q", name)
	}
	if _, ok := e.byValue[value]; ok {
		return fielderr.Statef("enum: duplicate value %d", value)
	}
	e.entries = append(e.entries, Entry{Name: name, Value: value})
	e.byName[name] = value
	e.byValue[value] = name
	return nil
}

// Parse maps name to its bound numeric value.
func (e *Enumeration) Parse(name string) (uint32, error) {
	v, ok := e.byName[name]
	if !ok {
		return 0, fielderr.Parsef("unknown enumeration value %q", name)
	}
	return v, nil
}

// Format maps value to its bound name. An unbound value formats as its
// decimal representation rather than failing, per spec.md §4.3.
func (e *Enumeration) Format(value uint32) string {
	if n, ok := e.byValue[value]; ok {
		return n
	}
	return strconv.FormatUint(uint64(value), 10)
}

// Entries returns bound entries in index order (ascending Value),
// whatever order they were added in.
func (e *Enumeration) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
