package dispatch

import (
	"testing"

	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/hwbus"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/fieldhub/fbserver/internal/tablewriter"
	"github.com/fieldhub/fbserver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *regctx.Context) {
	ctx := regctx.New(hwbus.NewMock())
	reg := registry.New()

	single, err := reg.AddBlock("PARAMS", 0x1000, 1)
	require.NoError(t, err)
	require.NoError(t, single.AddField("VAL", classes.NewParam("VAL", &types.UintType{}, 0x1000, 0, 1)))
	require.NoError(t, single.AddField("SCALED", classes.NewParam("SCALED", types.NewScalar(1), 0x1000, 4, 1)))

	multi, err := reg.AddBlock("TTLIN", 0x2000, 2)
	require.NoError(t, err)
	require.NoError(t, multi.AddField("VAL", classes.NewRead("VAL", &types.UintType{}, 0x2000, 0, 2)))

	seq, err := reg.AddBlock("SEQ", 0x3000, 1)
	require.NoError(t, err)
	require.NoError(t, seq.AddField("TABLE", classes.NewTable("TABLE", 0x3000, 0, 1024, 1)))

	return New(ctx, reg, "FIELDHUB 1.0"), ctx
}

func TestDispatchGetAndPut(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "PARAMS.VAL=42")
	require.Equal(t, KindOne, r.Kind)

	r = d.Dispatch(&tr, "PARAMS.VAL?")
	require.Equal(t, KindOne, r.Kind)
	assert.Equal(t, "42", r.Value)
}

func TestDispatchMultiInstance(t *testing.T) {
	d, ctx := newTestDispatcher(t)
	var tr change.Tracker
	require.NoError(t, ctx.Bus.WriteRegister(0x2000, 0, 1, 7))

	r := d.Dispatch(&tr, "TTLIN1.VAL?")
	require.Equal(t, KindOne, r.Kind)
	assert.Equal(t, "7", r.Value)
}

func TestDispatchUnknownEntity(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker
	r := d.Dispatch(&tr, "NOPE.VAL?")
	assert.Equal(t, KindError, r.Kind)
	assert.Error(t, r.Err)
}

func TestDispatchAttribute(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "PARAMS.SCALED.SCALE=2")
	require.Equal(t, KindOne, r.Kind)

	r = d.Dispatch(&tr, "PARAMS.SCALED=10")
	require.Equal(t, KindOne, r.Kind)

	r = d.Dispatch(&tr, "PARAMS.SCALED?")
	require.Equal(t, KindOne, r.Kind)
	assert.Equal(t, "10", r.Value)
}

func TestDispatchTableOpenAndIngest(t *testing.T) {
	d, ctx := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "SEQ.TABLE<")
	require.Equal(t, KindTable, r.Kind)
	require.NoError(t, r.Err)
	require.False(t, r.Discard)

	src := &fakeLineSource{lines: []string{"1 2 3", ""}}
	err := tablewriter.Ingest(src, r.Table, r.Header, r.Discard)
	require.NoError(t, err)

	mock := ctx.Bus.(*hwbus.Mock)
	assert.Equal(t, []uint32{1, 2, 3}, mock.Table(0x3000, 0, 0))
}

func TestDispatchTableOpenFallsBackToDummyOnMalformedHeader(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "SEQ.TABLE<Z")
	require.Equal(t, KindTable, r.Kind)
	assert.Error(t, r.Err)
	assert.True(t, r.Discard)

	src := &fakeLineSource{lines: []string{"garbage", ""}}
	err := tablewriter.Ingest(src, r.Table, r.Header, r.Discard)
	assert.NoError(t, err)
}

func TestDispatchChangesReportsAndAdvances(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "PARAMS.VAL=1")
	require.Equal(t, KindOne, r.Kind)

	r = d.Dispatch(&tr, "*CHANGES?")
	require.Equal(t, KindMany, r.Kind)
	assert.Contains(t, r.Items, "PARAMS.VAL=1")

	r = d.Dispatch(&tr, "*CHANGES?")
	assert.Empty(t, r.Items)
}

func TestDispatchChangesCategoryFilter(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker
	d.Dispatch(&tr, "PARAMS.VAL=1")

	r := d.Dispatch(&tr, "*CHANGES.READ?")
	require.Equal(t, KindMany, r.Kind)
	assert.Empty(t, r.Items)

	r = d.Dispatch(&tr, "*CHANGES.CONFIG?")
	require.Equal(t, KindMany, r.Kind)
	assert.Contains(t, r.Items, "PARAMS.VAL=1")
}

func TestDispatchIdnAndBlocks(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var tr change.Tracker

	r := d.Dispatch(&tr, "*IDN?")
	require.Equal(t, KindOne, r.Kind)
	assert.Equal(t, "FIELDHUB 1.0", r.Value)

	r = d.Dispatch(&tr, "*BLOCKS?")
	require.Equal(t, KindMany, r.Kind)
	assert.Contains(t, r.Items, "PARAMS 1")
	assert.Contains(t, r.Items, "TTLIN 2")
}

func TestDispatchCaptureResetAndList(t *testing.T) {
	d, ctx := newTestDispatcher(t)
	var tr change.Tracker

	ctx.Capture.SetPosCapture(0, true)
	r := d.Dispatch(&tr, "*CAPTURE?")
	require.Equal(t, KindMany, r.Kind)
	assert.Contains(t, r.Items, "POSITION0")

	r = d.Dispatch(&tr, "*CAPTURE=")
	require.Equal(t, KindOne, r.Kind)

	r = d.Dispatch(&tr, "*CAPTURE?")
	assert.Empty(t, r.Items)
}

type fakeLineSource struct {
	lines []string
	i     int
}

func (f *fakeLineSource) ReadLine() (string, bool, error) {
	if f.i >= len(f.lines) {
		return "", true, nil
	}
	line := f.lines[f.i]
	f.i++
	return line, false, nil
}
