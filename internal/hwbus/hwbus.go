// Package hwbus states the interface the core expects of the hardware
// register access layer. spec.md §1 declares HwBus an external
// collaborator: the core never defines a register ABI, only the narrow
// surface classes need to read/write registers and pull bit/position bus
// snapshots.
package hwbus

import "github.com/fieldhub/fbserver/internal/capture"

// Bus is implemented by the hardware register layer. blockBase+offset
// identifies a register; instance selects which of a block's N replicated
// units it addresses.
type Bus interface {
	capture.BitSource
	capture.PosSource

	ReadRegister(blockBase, offset uint32, instance int) (uint32, error)
	WriteRegister(blockBase, offset uint32, instance int, value uint32) error

	// WriteTable delivers a bulk ingest for a table field. append selects
	// replace-vs-append semantics (spec.md §4.10).
	WriteTable(blockBase, offset uint32, instance int, words []uint32, append bool) error
}
