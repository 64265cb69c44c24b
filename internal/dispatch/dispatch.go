// Package dispatch implements CommandDispatcher: the line grammar of
// spec.md §4.7 — "name?" (get), "name=value" (put) and "name<" (table
// ingest open) against entity names, plus the "*"-prefixed system command
// set of §4.9. The buffered line reader and socket itself are external
// collaborators (spec.md §1); this package only turns one already-read
// line into a Result and, for table opens, hands back the Target the
// caller must drain with internal/tablewriter.
package dispatch

import (
	"strings"

	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/fieldhub/fbserver/internal/tablewriter"
)

// Kind classifies a Result so the connection layer knows how many lines
// to write back.
type Kind int

const (
	KindOne   Kind = iota // one "OK" or "OK =value" line
	KindMany              // a "!value" line per entry, terminated by "."
	KindError             // one "ERR <message>" line
	// KindTable: table ingest opened (or fell back to a dummy sink).
	// Caller must drive tablewriter.Ingest next and report whichever of
	// Err or the drain's own error comes first.
	KindTable
)

// Result is what one dispatched line produces.
type Result struct {
	Kind  Kind
	Value string   // KindOne's formatted value, if any
	Items []string // KindMany's lines
	Err   error    // KindError's cause, or KindTable's open-time failure

	Table   tablewriter.Target
	Header  tablewriter.Header
	Discard bool // true if Table is the dummy sink (open failed)
}

func errResult(err error) Result { return Result{Kind: KindError, Err: err} }

// Dispatcher resolves and executes one already-read, already-trimmed
// protocol line against a registry and its runtime context.
type Dispatcher struct {
	ctx *regctx.Context
	reg *registry.Registry
	sys map[string]systemCommand
}

func New(ctx *regctx.Context, reg *registry.Registry, ident string) *Dispatcher {
	d := &Dispatcher{ctx: ctx, reg: reg}
	d.sys = buildSystemCommands(d, ident)
	return d
}

// Dispatch parses and executes line. tr is the requesting connection's
// change tracker, needed only by the "*CHANGES" family of system commands.
func (d *Dispatcher) Dispatch(tr *change.Tracker, line string) Result {
	if line == "" {
		return errResult(fielderr.Parsef("empty command"))
	}
	if strings.HasPrefix(line, "*") {
		return d.dispatchSystem(tr, line[1:])
	}
	return d.dispatchEntity(line)
}

func (d *Dispatcher) dispatchEntity(line string) Result {
	idx := strings.IndexAny(line, "?=<")
	if idx < 0 {
		return errResult(fielderr.Parsef("malformed command %q", line))
	}
	name, op, rest := line[:idx], line[idx], line[idx+1:]

	entity, attrName, err := d.resolve(name)
	if err != nil {
		return errResult(err)
	}

	switch op {
	case '?':
		if rest != "" {
			return errResult(fielderr.Parsef("unexpected trailing text after %q", name))
		}
		return d.get(entity, attrName)
	case '=':
		return d.put(entity, attrName, rest)
	case '<':
		if attrName != "" {
			return errResult(fielderr.Parsef("%q is not a table field", name))
		}
		return d.openTable(entity, rest)
	default:
		return errResult(fielderr.Internalf("unreachable operator %q", op))
	}
}

// resolve splits "BLOCK.FIELD" or "BLOCK.FIELD.ATTR" and resolves the
// entity half through the registry.
func (d *Dispatcher) resolve(name string) (registry.Entity, string, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return registry.Entity{}, "", fielderr.Lookupf("malformed entity name %q", name)
	}
	entity, err := d.reg.Resolve(parts[0] + "." + parts[1])
	if err != nil {
		return registry.Entity{}, "", err
	}
	if len(parts) == 3 {
		return entity, parts[2], nil
	}
	return entity, "", nil
}

func (d *Dispatcher) get(e registry.Entity, attrName string) Result {
	if attrName == "" {
		v, err := e.Field.Class.Get(d.ctx, e.Instance)
		if err != nil {
			return errResult(err)
		}
		return Result{Kind: KindOne, Value: v}
	}
	attr, err := d.findAttribute(e, attrName)
	if err != nil {
		return errResult(err)
	}
	v, err := attr.Format(e.Instance)
	if err != nil {
		return errResult(err)
	}
	return Result{Kind: KindOne, Value: v}
}

func (d *Dispatcher) put(e registry.Entity, attrName, value string) Result {
	if attrName == "" {
		if err := e.Field.Class.Put(d.ctx, e.Instance, value); err != nil {
			return errResult(err)
		}
		return Result{Kind: KindOne}
	}
	attr, err := d.findAttribute(e, attrName)
	if err != nil {
		return errResult(err)
	}
	if err := attr.Put(e.Instance, value, d.ctx.Clock.Tick); err != nil {
		return errResult(err)
	}
	return Result{Kind: KindOne}
}

func (d *Dispatcher) openTable(e registry.Entity, tail string) Result {
	header, err := tablewriter.ParseHeader(tail)
	if err != nil {
		return Result{Kind: KindTable, Table: tablewriter.Dummy, Discard: true, Err: err}
	}
	target, err := e.Field.Class.PutTable(d.ctx, e.Instance, header)
	if err != nil {
		return Result{Kind: KindTable, Table: tablewriter.Dummy, Header: header, Discard: true, Err: err}
	}
	return Result{Kind: KindTable, Table: target, Header: header}
}

func (d *Dispatcher) findAttribute(e registry.Entity, name string) (*attribute.Attribute, error) {
	for _, a := range e.Field.Attributes(d.ctx) {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fielderr.Lookupf("unknown attribute %q on %q", name, e.Field.Name)
}
