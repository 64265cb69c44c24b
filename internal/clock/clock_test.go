package clock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickMonotonic(t *testing.T) {
	var c Clock
	prev := c.Tick()
	require.Equal(t, uint64(1), prev)
	for range 100 {
		next := c.Tick()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestTickConcurrentNoDuplicates(t *testing.T) {
	var c Clock
	const n = 2000
	seen := make(chan uint64, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Tick()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool, n)
	for v := range seen {
		require.False(t, unique[v], "duplicate tick %d", v)
		unique[v] = true
	}
	assert.Len(t, unique, n)
}
