package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	l := New(4)
	require.NoError(t, l.Add("A", 0))
	require.NoError(t, l.Add("B", 3))

	name, ok := l.NameOf(3)
	require.True(t, ok)
	assert.Equal(t, "B", name)

	idx, ok := l.IndexOf("A")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = l.NameOf(1)
	assert.False(t, ok)
}

func TestAddOutOfRange(t *testing.T) {
	l := New(4)
	require.Error(t, l.Add("A", 4))
	require.Error(t, l.Add("A", -1))
}

func TestAddDuplicate(t *testing.T) {
	l := New(4)
	require.NoError(t, l.Add("A", 0))
	require.Error(t, l.Add("B", 0))
	require.Error(t, l.Add("A", 1))
}

func TestWalkOrder(t *testing.T) {
	l := New(4)
	require.NoError(t, l.Add("C", 2))
	require.NoError(t, l.Add("A", 0))

	var order []int
	l.Walk(func(index int, name string) { order = append(order, index) })
	assert.Equal(t, []int{0, 2}, order)
}
