package persistence

import (
	"errors"
	"testing"
	"time"

	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/hwbus"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/fieldhub/fbserver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	calls int
	fail  bool
}

func (f *fakeSink) Persist(*regctx.Context, *registry.Registry) error {
	f.calls++
	if f.fail {
		return errors.New("sink failed")
	}
	return nil
}

func newTestScheduler(t *testing.T, sink *fakeSink) (*Scheduler, *regctx.Context) {
	ctx := regctx.New(hwbus.NewMock())
	reg := registry.New()
	b, err := reg.AddBlock("BLK", 0, 1)
	require.NoError(t, err)
	require.NoError(t, b.AddField("VAL", classes.NewParam("VAL", &types.UintType{}, 0, 0, 1)))

	s, err := New(ctx, reg, sink, Timing{Poll: time.Hour, Holdoff: 0, Backoff: time.Hour})
	require.NoError(t, err)
	return s, ctx
}

func TestTickDoesNothingWithoutChanges(t *testing.T) {
	sink := &fakeSink{}
	s, _ := newTestScheduler(t, sink)
	s.tick()
	assert.Equal(t, 0, sink.calls)
	assert.False(t, s.pending)
}

func TestTickWritesAfterHoldoff(t *testing.T) {
	sink := &fakeSink{}
	s, ctx := newTestScheduler(t, sink)
	b, _ := s.reg.Block("BLK")
	f, _ := b.Field("VAL")
	require.NoError(t, f.Class.Put(ctx, 0, "1"))

	s.tick()
	assert.True(t, s.pending)
	assert.Equal(t, 0, sink.calls)

	s.dueAt = time.Now().Add(-time.Second)
	s.tick()
	assert.False(t, s.pending)
	assert.Equal(t, 1, sink.calls)
}

func TestTickBacksOffOnFailureThenRecovers(t *testing.T) {
	sink := &fakeSink{fail: true}
	s, ctx := newTestScheduler(t, sink)
	b, _ := s.reg.Block("BLK")
	f, _ := b.Field("VAL")
	require.NoError(t, f.Class.Put(ctx, 0, "1"))

	s.tick()
	s.dueAt = time.Now().Add(-time.Second)
	s.tick()
	assert.True(t, s.pending)
	assert.Equal(t, 1, sink.calls)

	sink.fail = false
	s.dueAt = time.Now().Add(-time.Second)
	s.tick()
	assert.False(t, s.pending)
	assert.Equal(t, 2, sink.calls)
}
