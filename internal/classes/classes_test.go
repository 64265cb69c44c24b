package classes

import (
	"testing"

	"github.com/fieldhub/fbserver/internal/hwbus"
	"github.com/fieldhub/fbserver/internal/mux"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/tablewriter"
	"github.com/fieldhub/fbserver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCtx() *regctx.Context {
	return regctx.New(hwbus.NewMock())
}

func TestParamRoundTripAndChange(t *testing.T) {
	ctx := newTestCtx()
	p := NewParam("VAL", &types.UintType{}, 0x10, 4, 2)

	require.NoError(t, p.Put(ctx, 0, "7"))
	s, err := p.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "7", s)
	assert.True(t, p.Changed(ctx, 0, 0))
	assert.False(t, p.Changed(ctx, 1, 0))

	v, err := ctx.Bus.ReadRegister(0x10, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)
}

func TestWriteIsNotReadable(t *testing.T) {
	ctx := newTestCtx()
	w := NewWrite("TRIG", &types.ActionType{}, 0x20, 0, 1)
	_, err := w.Get(ctx, 0)
	assert.Error(t, err)
	assert.NoError(t, w.Put(ctx, 0, ""))
}

func TestReadReflectsHardwareAndTracksChange(t *testing.T) {
	ctx := newTestCtx()
	r := NewRead("STATUS", &types.UintType{}, 0x30, 0, 1)

	s, err := r.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "0", s)
	assert.False(t, r.Changed(ctx, 0, 0))

	require.NoError(t, ctx.Bus.WriteRegister(0x30, 0, 0, 42))
	s, err = r.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "42", s)
	assert.True(t, r.Changed(ctx, 0, 0))
}

func TestBitOutReadsCaptureMirrorAndCapture(t *testing.T) {
	ctx := newTestCtx()
	b := NewBitOut("OUT", 5, 4)
	mock := ctx.Bus.(*hwbus.Mock)
	mock.SetBit(5, true)
	mock.SetBit(6, true)
	require.NoError(t, ctx.Capture.RefreshBits(ctx.Clock.Tick(), mock))

	s, err := b.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", s)
	assert.True(t, b.Changed(ctx, 0, 0))

	attrs := b.Attributes(ctx)
	require.Len(t, attrs, 2)
	require.NoError(t, attrs[0].Put(0, "1", ctx.Clock.Tick))
	idx, err := attrs[1].Format(0)
	require.NoError(t, err)
	assert.Equal(t, "0:5", idx)
}

func TestPosOutScalesAndCaptures(t *testing.T) {
	ctx := newTestCtx()
	p := NewPosOut("POS", 0, 2)
	mock := ctx.Bus.(*hwbus.Mock)
	mock.SetPosition(0, 100)
	require.NoError(t, ctx.Capture.RefreshPositions(ctx.Clock.Tick(), mock))

	s, err := p.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "100", s)

	attrs := p.Attributes(ctx)
	require.NoError(t, attrs[0].Put(0, "1", ctx.Clock.Tick))
	require.NoError(t, attrs[2].Put(0, "ENCODER", ctx.Clock.Tick))
	st, err := attrs[2].Format(0)
	require.NoError(t, err)
	assert.Equal(t, "ENCODER", st)
}

func TestBitMuxRoundTrip(t *testing.T) {
	ctx := newTestCtx()
	lookup := mux.New(4)
	require.NoError(t, lookup.Add("TTLIN1.OUT", 2))
	m := NewBitMux("SELECT", lookup, 0x40, 0, 1)

	require.NoError(t, m.Put(ctx, 0, "TTLIN1.OUT"))
	s, err := m.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "TTLIN1.OUT", s)
	assert.True(t, m.Changed(ctx, 0, 0))

	err = m.Put(ctx, 0, "NOPE")
	assert.Error(t, err)
}

func TestTableStreamsWordsToBus(t *testing.T) {
	ctx := newTestCtx()
	tbl := NewTable("SEQ", 0x50, 0, 1024, 1)

	target, err := tbl.PutTable(ctx, 0, tablewriter.Header{})
	require.NoError(t, err)
	require.NoError(t, target.Write([]uint32{1, 2, 3}))
	require.NoError(t, target.Close(true, 3))

	mock := ctx.Bus.(*hwbus.Mock)
	assert.Equal(t, []uint32{1, 2, 3}, mock.Table(0x50, 0, 0))
	assert.True(t, tbl.Changed(ctx, 0, 0))
}

func TestTimeReadsFortyEightBitPair(t *testing.T) {
	ctx := newTestCtx()
	tm := NewTime("CLOCK", 0x60, 0, 1)
	require.NoError(t, ctx.Bus.WriteRegister(0x60, 0, 0, 1_000_000))
	require.NoError(t, ctx.Bus.WriteRegister(0x60, 1, 0, 0))

	s, err := tm.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", s)
	assert.True(t, tm.Changed(ctx, 0, 0))
}
