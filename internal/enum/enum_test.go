package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRoundTrip(t *testing.T) {
	e := NewStatic([]Entry{{"ZERO", 0}, {"ONE", 1}})
	v, err := e.Parse("ONE")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
	assert.Equal(t, "ONE", e.Format(1))
}

func TestFormatUnknownValueIsDecimal(t *testing.T) {
	e := NewStatic([]Entry{{"ZERO", 0}})
	assert.Equal(t, "5", e.Format(5))
}

func TestParseUnknownNameFails(t *testing.T) {
	e := NewStatic([]Entry{{"ZERO", 0}})
	_, err := e.Parse("NOPE")
	require.Error(t, err)
}

func TestDynamicAddDuplicates(t *testing.T) {
	e := NewDynamic(4)
	require.NoError(t, e.Add("A", 0))
	require.Error(t, e.Add("B", 0))
	require.Error(t, e.Add("A", 1))
	require.Error(t, e.Add("C", 4))
}

func TestDynamicEntryOrder(t *testing.T) {
	e := NewDynamic(4)
	require.NoError(t, e.Add("B", 2))
	require.NoError(t, e.Add("A", 0))
	entries := e.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "B", entries[1].Name)
}
