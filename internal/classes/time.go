package classes

import (
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/types"
)

// Time reads a free-running 48-bit hardware counter split across two
// 32-bit registers (Offset = low word, Offset+1 = high word), distinct
// from the textual "time" Type used by param/write fields for delay
// settings. Ticks use the same TicksPerSecond convention as the time Type
// so "123.456" means the same thing whether it names a delay or a
// timestamp.
type Time struct {
	base

	Name      string
	BlockBase uint32
	Offset    uint32
	cache     []uint64
	updateIdx []uint64
}

const time48Mask = (uint64(1) << 48) - 1

func NewTime(name string, blockBase, offset uint32, count int) *Time {
	return &Time{
		Name:      name,
		BlockBase: blockBase,
		Offset:    offset,
		cache:     make([]uint64, count),
		updateIdx: make([]uint64, count),
	}
}

func (tm *Time) Count() int         { return len(tm.cache) }
func (tm *Time) Category() Category { return CatRead }

func (tm *Time) Get(ctx *regctx.Context, number int) (string, error) {
	if err := checkInstance(len(tm.cache), number); err != nil {
		return "", err
	}
	lo, err := ctx.Bus.ReadRegister(tm.BlockBase, tm.Offset, number)
	if err != nil {
		return "", err
	}
	hi, err := ctx.Bus.ReadRegister(tm.BlockBase, tm.Offset+1, number)
	if err != nil {
		return "", err
	}
	v := (uint64(hi)<<32 | uint64(lo)) & time48Mask
	if v != tm.cache[number] {
		tm.cache[number] = v
		tm.updateIdx[number] = ctx.Clock.Tick()
	}
	return types.FormatDouble(float64(v) / types.TicksPerSecond), nil
}

func (tm *Time) Changed(_ *regctx.Context, number int, report uint64) bool {
	return tm.updateIdx[number] > report
}
