// Package regctx carries the process-global, mutable runtime state —
// change clock, hardware bus and bit/position capture mirror — as one
// value threaded through every operation, rather than as package globals,
// so tests can build independent instances (spec.md "DESIGN NOTES").
package regctx

import (
	"github.com/fieldhub/fbserver/internal/capture"
	"github.com/fieldhub/fbserver/internal/clock"
	"github.com/fieldhub/fbserver/internal/hwbus"
)

type Context struct {
	Clock   *clock.Clock
	Bus     hwbus.Bus
	Capture *capture.Capture
}

func New(bus hwbus.Bus) *Context {
	return &Context{
		Clock:   &clock.Clock{},
		Bus:     bus,
		Capture: capture.New(),
	}
}
