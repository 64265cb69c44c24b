// Package classes implements the Class kinds of spec.md §3/§4.6: the
// behaviour bound to a field's "type" line in the database — param, read,
// write, bit_out, pos_out, bit_mux, pos_mux, table and time. A Class owns
// whatever per-instance state its kind needs (a cached register value, a
// mux selection, a capture mask view) and reports which change Category,
// if any, its mutations belong to, so internal/change can walk it during a
// "*CHANGES" report.
package classes

import (
	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/tablewriter"
)

// Category groups field mutations for "*CHANGES" reporting (spec.md §4.8).
type Category int

const (
	CatConfig Category = iota
	CatBits
	CatPosition
	CatRead
	CatAttr
	CatTable
	NumCategories
)

func (c Category) String() string {
	switch c {
	case CatConfig:
		return "CONFIG"
	case CatBits:
		return "BITS"
	case CatPosition:
		return "POSITION"
	case CatRead:
		return "READ"
	case CatAttr:
		return "ATTR"
	case CatTable:
		return "TABLE"
	default:
		return "UNKNOWN"
	}
}

// Class is the behaviour bound to one field. number addresses one of a
// block's replicated instances; every method is instance-scoped.
type Class interface {
	// Count is the number of instances this field was declared over.
	Count() int

	// Category is the change category this class's primary value belongs
	// to. Classes with no trackable primary value (write) still return a
	// category; their Changed always returns false, which makes the
	// category moot for those.
	Category() Category

	// Get formats instance number's current value as the "?" response.
	Get(ctx *regctx.Context, number int) (string, error)

	// Put parses and applies value to instance number.
	Put(ctx *regctx.Context, number int, value string) error

	// PutTable opens a bulk ingest target for instance number. header
	// carries the append/base64 flags already parsed off the command
	// line.
	PutTable(ctx *regctx.Context, number int, header tablewriter.Header) (tablewriter.Target, error)

	// Changed reports whether instance number has a pending change in
	// this class's Category newer than report.
	Changed(ctx *regctx.Context, number int, report uint64) bool

	// Attributes lists the class's own attributes (e.g. CAPTURE,
	// CAPTURE_INDEX) in addition to any its Type contributes. ctx is
	// threaded through because a handful of attributes (CAPTURE) read and
	// mutate the shared capture mirror rather than per-class state.
	Attributes(ctx *regctx.Context) []*attribute.Attribute
}

// base supplies the "not supported" stub for every Class method; concrete
// kinds embed it and override only what they implement.
type base struct{}

func (base) Get(*regctx.Context, int) (string, error) {
	return "", fielderr.Statef("field is not readable")
}

func (base) Put(*regctx.Context, int, string) error {
	return fielderr.Statef("field is not writable")
}

func (base) PutTable(*regctx.Context, int, tablewriter.Header) (tablewriter.Target, error) {
	return nil, fielderr.Statef("field does not accept a table")
}

func (base) Changed(*regctx.Context, int, uint64) bool { return false }

func (base) Attributes(*regctx.Context) []*attribute.Attribute { return nil }

func checkInstance(count, number int) error {
	if number < 0 || number >= count {
		return fielderr.Rangef("instance %d out of range [0,%d)", number, count)
	}
	return nil
}
