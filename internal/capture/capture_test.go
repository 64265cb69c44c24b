package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBits struct {
	values  [BitBusSize]bool
	changed [BitBusSize]bool
}

func (f fakeBits) ReadBits() ([BitBusSize]bool, [BitBusSize]bool, error) {
	return f.values, f.changed, nil
}

func TestRefreshBitsUpdateIndex(t *testing.T) {
	c := New()
	src := fakeBits{}
	src.changed[5] = true
	require.NoError(t, c.RefreshBits(10, src))

	assert.True(t, c.BitChanged(5, 9))
	assert.False(t, c.BitChanged(5, 10))
	assert.False(t, c.BitChanged(6, 0))

	// A redundant refresh in which bit 5 did not change must not raise its
	// update_index past 10.
	src2 := fakeBits{}
	require.NoError(t, c.RefreshBits(10, src2))
	assert.False(t, c.BitChanged(5, 10))
}

func TestCaptureIndexPositionsBeforeGroups(t *testing.T) {
	c := New()
	c.SetPosCapture(3, true)
	c.SetBitCapture(0, true) // group 0

	assert.Equal(t, "0", c.PosCaptureIndexString(3))
	assert.Equal(t, "1:0", c.BitCaptureIndexString(0))

	c.SetPosCapture(3, false)
	assert.Equal(t, "", c.PosCaptureIndexString(3))
	// Bit group ordinal shifts down once the position is removed.
	assert.Equal(t, "0:0", c.BitCaptureIndexString(0))
}

func TestCaptureIndexSkipsUnselected(t *testing.T) {
	c := New()
	c.SetBitCapture(64, true) // group 2
	assert.Equal(t, "0:0", c.BitCaptureIndexString(64))
	assert.Equal(t, "", c.BitCaptureIndexString(0))
}

func TestResetCaptureClearsEverything(t *testing.T) {
	c := New()
	c.SetPosCapture(0, true)
	c.SetBitCapture(0, true)
	c.ResetCapture()
	assert.Empty(t, c.CapturedPositions())
	assert.Empty(t, c.CapturedGroups())
	assert.Equal(t, "", c.PosCaptureIndexString(0))
	assert.Equal(t, "", c.BitCaptureIndexString(0))
}

func TestCapturedOrderMatchesIndex(t *testing.T) {
	c := New()
	c.SetBitCapture(100, true) // group 3
	c.SetBitCapture(5, true)   // group 0
	c.SetPosCapture(10, true)

	assert.Equal(t, []int{10}, c.CapturedPositions())
	assert.Equal(t, []int{0, 3}, c.CapturedGroups())
}
