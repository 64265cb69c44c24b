package classes

import (
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/mux"
	"github.com/fieldhub/fbserver/internal/regctx"
)

// BitMux and PosMux back fields whose value selects one named entry out of
// the shared bit- or position-mux table (spec.md §3, §4.2) rather than
// holding an engineering value directly. Selection is itself CONFIG state:
// cached, pushed to hardware as a raw mux index, and tracked the same way
// Param tracks a register value.
type BitMux struct {
	base

	Name      string
	Lookup    *mux.Lookup
	BlockBase uint32
	Offset    uint32
	raw       []uint32
	updateIdx []uint64
}

func NewBitMux(name string, lookup *mux.Lookup, blockBase, offset uint32, count int) *BitMux {
	return &BitMux{
		Name:      name,
		Lookup:    lookup,
		BlockBase: blockBase,
		Offset:    offset,
		raw:       make([]uint32, count),
		updateIdx: make([]uint64, count),
	}
}

func (m *BitMux) Count() int         { return len(m.raw) }
func (m *BitMux) Category() Category { return CatConfig }

func (m *BitMux) Get(_ *regctx.Context, number int) (string, error) {
	if err := checkInstance(len(m.raw), number); err != nil {
		return "", err
	}
	name, ok := m.Lookup.NameOf(int(m.raw[number]))
	if !ok {
		return "", fielderr.Statef("mux index %d is unbound", m.raw[number])
	}
	return name, nil
}

func (m *BitMux) Put(ctx *regctx.Context, number int, value string) error {
	if err := checkInstance(len(m.raw), number); err != nil {
		return err
	}
	idx, ok := m.Lookup.IndexOf(value)
	if !ok {
		return fielderr.Lookupf("unknown mux selection %q", value)
	}
	if err := ctx.Bus.WriteRegister(m.BlockBase, m.Offset, number, uint32(idx)); err != nil {
		return err
	}
	m.raw[number] = uint32(idx)
	m.updateIdx[number] = ctx.Clock.Tick()
	return nil
}

func (m *BitMux) Changed(_ *regctx.Context, number int, report uint64) bool {
	return m.updateIdx[number] > report
}

// PosMux is the position-bus analogue of BitMux.
type PosMux struct {
	base

	Name      string
	Lookup    *mux.Lookup
	BlockBase uint32
	Offset    uint32
	raw       []uint32
	updateIdx []uint64
}

func NewPosMux(name string, lookup *mux.Lookup, blockBase, offset uint32, count int) *PosMux {
	return &PosMux{
		Name:      name,
		Lookup:    lookup,
		BlockBase: blockBase,
		Offset:    offset,
		raw:       make([]uint32, count),
		updateIdx: make([]uint64, count),
	}
}

func (m *PosMux) Count() int         { return len(m.raw) }
func (m *PosMux) Category() Category { return CatConfig }

func (m *PosMux) Get(_ *regctx.Context, number int) (string, error) {
	if err := checkInstance(len(m.raw), number); err != nil {
		return "", err
	}
	name, ok := m.Lookup.NameOf(int(m.raw[number]))
	if !ok {
		return "", fielderr.Statef("mux index %d is unbound", m.raw[number])
	}
	return name, nil
}

func (m *PosMux) Put(ctx *regctx.Context, number int, value string) error {
	if err := checkInstance(len(m.raw), number); err != nil {
		return err
	}
	idx, ok := m.Lookup.IndexOf(value)
	if !ok {
		return fielderr.Lookupf("unknown mux selection %q", value)
	}
	if err := ctx.Bus.WriteRegister(m.BlockBase, m.Offset, number, uint32(idx)); err != nil {
		return err
	}
	m.raw[number] = uint32(idx)
	m.updateIdx[number] = ctx.Clock.Tick()
	return nil
}

func (m *PosMux) Changed(_ *regctx.Context, number int, report uint64) bool {
	return m.updateIdx[number] > report
}
