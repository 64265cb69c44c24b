package classes

import (
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/tablewriter"
)

// Table backs a bulk-ingest field (spec.md §4.10): no scalar Get/Put, only
// PutTable, which opens a Target that streams decoded words straight to
// the hardware table register as they arrive.
type Table struct {
	base

	Name      string
	BlockBase uint32
	Offset    uint32
	Capacity  int // in 32-bit words; recorded only, writes are not checked against it
	count     int
	updateIdx []uint64
}

func NewTable(name string, blockBase, offset uint32, capacity, count int) *Table {
	return &Table{
		Name:      name,
		BlockBase: blockBase,
		Offset:    offset,
		Capacity:  capacity,
		count:     count,
		updateIdx: make([]uint64, count),
	}
}

func (t *Table) Count() int         { return t.count }
func (t *Table) Category() Category { return CatTable }

func (t *Table) Changed(_ *regctx.Context, number int, report uint64) bool {
	return t.updateIdx[number] > report
}

func (t *Table) PutTable(ctx *regctx.Context, number int, header tablewriter.Header) (tablewriter.Target, error) {
	if err := checkInstance(t.count, number); err != nil {
		return nil, err
	}
	return &tableTarget{ctx: ctx, t: t, number: number, append: header.Append}, nil
}

// tableTarget streams decoded words to the hardware table register in the
// order tablewriter.Ingest hands them over. A failed WriteTable call
// aborts further writes but lets the ingest loop keep draining the
// connection so client and server stay synchronized.
type tableTarget struct {
	ctx     *regctx.Context
	t       *Table
	number  int
	append  bool
	wrote   int
	failed  bool
}

func (w *tableTarget) Write(words []uint32) error {
	if w.failed {
		return nil
	}
	err := w.ctx.Bus.WriteTable(w.t.BlockBase, w.t.Offset, w.number, words, w.append || w.wrote > 0)
	if err != nil {
		w.failed = true
		return err
	}
	w.wrote += len(words)
	return nil
}

func (w *tableTarget) Close(success bool, _ int) error {
	if success && !w.failed {
		w.t.updateIdx[w.number] = w.ctx.Clock.Tick()
	}
	return nil
}
