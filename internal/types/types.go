// Package types implements the Type contract of spec.md §4.4: the closed
// set of value-presentation policies (uint, int, bit, action, lut, enum,
// scalar, position, time) layered over 32-bit register values.
package types

import (
	"github.com/fieldhub/fbserver/internal/attribute"
)

// Type is implemented by every presentation policy. number addresses a
// specific instance of the field the Type is attached to, since attributes
// such as scalar's SCALE/OFFSET are themselves per-instance state.
type Type interface {
	Name() string
	Parse(number int, s string) (uint32, error)
	Format(number int, v uint32) (string, error)
	Attributes() []*attribute.Attribute
}
