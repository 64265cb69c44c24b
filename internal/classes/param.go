package classes

import (
	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/types"
)

// Param is a self-owned configuration register: the server holds the
// value of record and pushes it to hardware on every Put, but never rereads
// hardware to answer a Get (spec.md §4.6). Its mutations belong to CONFIG.
type Param struct {
	base

	Name       string
	Type       types.Type
	BlockBase  uint32
	Offset     uint32
	raw        []uint32
	updateIdx  []uint64
}

func NewParam(name string, ty types.Type, blockBase, offset uint32, count int) *Param {
	return &Param{
		Name:      name,
		Type:      ty,
		BlockBase: blockBase,
		Offset:    offset,
		raw:       make([]uint32, count),
		updateIdx: make([]uint64, count),
	}
}

func (p *Param) Count() int        { return len(p.raw) }
func (p *Param) Category() Category { return CatConfig }

func (p *Param) Get(_ *regctx.Context, number int) (string, error) {
	if err := checkInstance(len(p.raw), number); err != nil {
		return "", err
	}
	return p.Type.Format(number, p.raw[number])
}

func (p *Param) Put(ctx *regctx.Context, number int, value string) error {
	if err := checkInstance(len(p.raw), number); err != nil {
		return err
	}
	v, err := p.Type.Parse(number, value)
	if err != nil {
		return err
	}
	if err := ctx.Bus.WriteRegister(p.BlockBase, p.Offset, number, v); err != nil {
		return err
	}
	p.raw[number] = v
	p.updateIdx[number] = ctx.Clock.Tick()
	return nil
}

func (p *Param) Changed(_ *regctx.Context, number int, report uint64) bool {
	return p.updateIdx[number] > report
}

func (p *Param) Attributes(*regctx.Context) []*attribute.Attribute { return p.Type.Attributes() }

// Write is a write-only register: every Put pushes straight to hardware
// with no cached value of record and no readback, so it never reports a
// change: its Changed always returns false, so its nominal CONFIG
// category never reports anything.
type Write struct {
	base

	Name      string
	Type      types.Type
	BlockBase uint32
	Offset    uint32
	count     int
}

func NewWrite(name string, ty types.Type, blockBase, offset uint32, count int) *Write {
	return &Write{Name: name, Type: ty, BlockBase: blockBase, Offset: offset, count: count}
}

func (w *Write) Count() int         { return w.count }
func (w *Write) Category() Category { return CatConfig }

func (w *Write) Put(ctx *regctx.Context, number int, value string) error {
	if err := checkInstance(w.count, number); err != nil {
		return err
	}
	v, err := w.Type.Parse(number, value)
	if err != nil {
		return err
	}
	return ctx.Bus.WriteRegister(w.BlockBase, w.Offset, number, v)
}

func (w *Write) Attributes(*regctx.Context) []*attribute.Attribute { return w.Type.Attributes() }

// Read pulls a fresh register value on every Get and caches it so repeat
// reads can be compared for change reporting under READ (spec.md §4.6).
type Read struct {
	base

	Name      string
	Type      types.Type
	BlockBase uint32
	Offset    uint32
	cache     []uint32
	updateIdx []uint64
}

func NewRead(name string, ty types.Type, blockBase, offset uint32, count int) *Read {
	return &Read{
		Name:      name,
		Type:      ty,
		BlockBase: blockBase,
		Offset:    offset,
		cache:     make([]uint32, count),
		updateIdx: make([]uint64, count),
	}
}

func (r *Read) Count() int         { return len(r.cache) }
func (r *Read) Category() Category { return CatRead }

func (r *Read) Get(ctx *regctx.Context, number int) (string, error) {
	if err := checkInstance(len(r.cache), number); err != nil {
		return "", err
	}
	v, err := ctx.Bus.ReadRegister(r.BlockBase, r.Offset, number)
	if err != nil {
		return "", err
	}
	if v != r.cache[number] {
		r.cache[number] = v
		r.updateIdx[number] = ctx.Clock.Tick()
	}
	return r.Type.Format(number, v)
}

func (r *Read) Changed(_ *regctx.Context, number int, report uint64) bool {
	return r.updateIdx[number] > report
}

func (r *Read) Attributes(*regctx.Context) []*attribute.Attribute { return r.Type.Attributes() }
