// Package registry implements the static descriptor graph a database load
// builds once and the dispatcher reads for the rest of the process
// lifetime: blocks, their fields, and the lookups needed to resolve a wire
// name like "TTLIN1.VAL" or "TTLIN.VAL" (spec.md §3, §4.1, §4.7).
package registry

import (
	"strconv"
	"strings"
	"sync"

	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/regctx"
)

// Field is one named entity within a Block, backed by a Class.
type Field struct {
	Name  string
	Class classes.Class

	attrsOnce sync.Once
	attrs     []*attribute.Attribute
}

// Attributes returns the field's attribute set, built once on first access
// and cached for the Field's lifetime. This matters beyond avoiding
// redundant work: each Attribute owns a per-instance update_index (spec.md
// §4.5) that an ATTR-bumping Put records into, so a fresh Class.Attributes
// call per request would silently discard every such write the instant
// the call returned — the next access would get new Attribute values with
// update_index back at zero. Caching here is what lets that index persist
// across the requests that report on it.
func (f *Field) Attributes(ctx *regctx.Context) []*attribute.Attribute {
	f.attrsOnce.Do(func() {
		f.attrs = f.Class.Attributes(ctx)
	})
	return f.attrs
}

// Block is a named group of Count replicated hardware units, each exposing
// the same set of Fields (spec.md §3).
type Block struct {
	Name   string
	Base   uint32 // base register address for instance 0
	Count  int
	fields []*Field
	byName map[string]*Field
}

func newBlock(name string, base uint32, count int) *Block {
	return &Block{Name: name, Base: base, Count: count, byName: make(map[string]*Field)}
}

// AddField registers a field on the block. Fails on a duplicate name or a
// Class declared over the wrong instance count.
func (b *Block) AddField(name string, class classes.Class) error {
	if _, ok := b.byName[name]; ok {
		return fielderr.Statef("block %q: duplicate field %q", b.Name, name)
	}
	if class.Count() != b.Count {
		return fielderr.Internalf("block %q field %q: class has %d instances, block has %d",
			b.Name, name, class.Count(), b.Count)
	}
	f := &Field{Name: name, Class: class}
	b.fields = append(b.fields, f)
	b.byName[name] = f
	return nil
}

// Field looks up a field by name within the block.
func (b *Block) Field(name string) (*Field, bool) {
	f, ok := b.byName[name]
	return f, ok
}

// Fields iterates fields in declaration order.
func (b *Block) Fields() []*Field { return append([]*Field(nil), b.fields...) }

// Registry is the whole descriptor graph: every block, in declaration
// order, looked up by name.
type Registry struct {
	blocks []*Block
	byName map[string]*Block
}

func New() *Registry {
	return &Registry{byName: make(map[string]*Block)}
}

// AddBlock declares a new block. Fails on a duplicate block name.
func (r *Registry) AddBlock(name string, base uint32, count int) (*Block, error) {
	if _, ok := r.byName[name]; ok {
		return nil, fielderr.Statef("duplicate block %q", name)
	}
	b := newBlock(name, base, count)
	r.blocks = append(r.blocks, b)
	r.byName[name] = b
	return b, nil
}

// Block looks up a block by name.
func (r *Registry) Block(name string) (*Block, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// Blocks iterates blocks in declaration order.
func (r *Registry) Blocks() []*Block { return append([]*Block(nil), r.blocks...) }

// Entity identifies one field and, if the block has more than one
// instance, which instance, resolved from a wire name (spec.md §4.1: a
// single-instance block's field is addressed as "BLOCK.FIELD"; a
// multi-instance block's is "BLOCK<n>.FIELD").
type Entity struct {
	Block    *Block
	Field    *Field
	Instance int
}

// Resolve parses a wire entity name and looks it up. number is the
// instance within the field's own value space, which for a single-field
// block equals the block instance, but for shared buses (bit_out/pos_out)
// may index further inside the class — callers that need per-class
// addressing beyond the block instance handle that themselves; Resolve
// only ever resolves the block instance.
func (r *Registry) Resolve(name string) (Entity, error) {
	dot := strings.IndexByte(name, '.')
	if dot < 0 {
		return Entity{}, fielderr.Lookupf("malformed entity name %q", name)
	}
	blockPart, fieldName := name[:dot], name[dot+1:]

	blockName, instance, err := splitInstance(blockPart)
	if err != nil {
		return Entity{}, err
	}
	block, ok := r.byName[blockName]
	if !ok {
		return Entity{}, fielderr.Lookupf("unknown block %q", blockName)
	}
	if instance < 0 {
		if block.Count != 1 {
			return Entity{}, fielderr.Lookupf("block %q requires an instance number", blockName)
		}
		instance = 0
	}
	if instance >= block.Count {
		return Entity{}, fielderr.Rangef("instance %d out of range for block %q", instance, blockName)
	}
	field, ok := block.byName[fieldName]
	if !ok {
		return Entity{}, fielderr.Lookupf("unknown field %q on block %q", fieldName, blockName)
	}
	return Entity{Block: block, Field: field, Instance: instance}, nil
}

// splitInstance splits "NAME<n>" style block text into its name and
// instance number; a block given with no trailing digits returns
// instance -1 to mean "unspecified".
func splitInstance(s string) (string, int, error) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1, nil
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return "", 0, fielderr.Parsef("malformed block instance in %q", s)
	}
	return s[:i], n, nil
}

// WireName renders the entity name for a block/instance pair the way
// responses echo it: "BLOCK.FIELD" for a single-instance block, else
// "BLOCK<n>.FIELD" (spec.md §4.1).
func WireName(block *Block, instance int, field *Field) string {
	if block.Count == 1 {
		return block.Name + "." + field.Name
	}
	return block.Name + strconv.Itoa(instance) + "." + field.Name
}
