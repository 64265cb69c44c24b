package hwbus

import (
	"sync"

	"github.com/fieldhub/fbserver/internal/capture"
)

// Mock is an in-memory Bus used by tests and by cmd/fbserver when no real
// register layer is wired in. Registers are keyed by (blockBase, offset,
// instance); bit/position values are set directly by tests to simulate
// hardware transitions.
type Mock struct {
	mu        sync.Mutex
	registers map[[3]uint32]uint32
	tables    map[[3]uint32][]uint32

	bits        [capture.BitBusSize]bool
	bitsChanged [capture.BitBusSize]bool
	positions   [capture.PosBusSize]uint32
	posChanged  [capture.PosBusSize]bool
}

func NewMock() *Mock {
	return &Mock{registers: make(map[[3]uint32]uint32), tables: make(map[[3]uint32][]uint32)}
}

func key(blockBase, offset uint32, instance int) [3]uint32 {
	return [3]uint32{blockBase, offset, uint32(instance)}
}

func (m *Mock) ReadRegister(blockBase, offset uint32, instance int) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registers[key(blockBase, offset, instance)], nil
}

func (m *Mock) WriteRegister(blockBase, offset uint32, instance int, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers[key(blockBase, offset, instance)] = value
	return nil
}

func (m *Mock) WriteTable(blockBase, offset uint32, instance int, words []uint32, append bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(blockBase, offset, instance)
	if append {
		m.tables[k] = append2(m.tables[k], words)
	} else {
		cp := make([]uint32, len(words))
		copy(cp, words)
		m.tables[k] = cp
	}
	return nil
}

func append2(dst, src []uint32) []uint32 {
	out := make([]uint32, len(dst)+len(src))
	copy(out, dst)
	copy(out[len(dst):], src)
	return out
}

func (m *Mock) Table(blockBase, offset uint32, instance int) []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[key(blockBase, offset, instance)]
}

// SetBit simulates a hardware transition of bit i to value v, to be
// observed on the next ReadBits.
func (m *Mock) SetBit(i int, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bits[i] != v {
		m.bitsChanged[i] = true
	}
	m.bits[i] = v
}

func (m *Mock) ReadBits() (values [capture.BitBusSize]bool, changed [capture.BitBusSize]bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values = m.bits
	changed = m.bitsChanged
	m.bitsChanged = [capture.BitBusSize]bool{}
	return values, changed, nil
}

func (m *Mock) SetPosition(i int, v uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.positions[i] != v {
		m.posChanged[i] = true
	}
	m.positions[i] = v
}

func (m *Mock) ReadPositions() (values [capture.PosBusSize]uint32, changed [capture.PosBusSize]bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values = m.positions
	changed = m.posChanged
	m.posChanged = [capture.PosBusSize]bool{}
	return values, changed, nil
}
