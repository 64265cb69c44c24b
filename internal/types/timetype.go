package types

import (
	"strconv"
	"strings"

	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/fielderr"
)

// TicksPerSecond expresses the tick clock's resolution: one tick is one
// microsecond, so a uint32 tick count spans a little over an hour. The
// 48-bit time class (internal/classes) reuses this same convention across
// its register pair.
const TicksPerSecond = 1_000_000.0

const ticksPerUnit = TicksPerSecond

// TimeType parses "<number><suffix>" with suffix one of us|ms|s|min into
// an integer tick count, and formats a tick count back as seconds
// (spec.md §4.4).
type TimeType struct{}

func (TimeType) Name() string { return "time" }

func (TimeType) Parse(_ int, s string) (uint32, error) {
	s = strings.TrimSpace(s)
	mul := ticksPerUnit
	for _, suf := range []struct {
		name string
		per  float64 // ticks per unit, ticks = value * per
	}{
		{"min", 60 * ticksPerUnit},
		{"ms", ticksPerUnit / 1000},
		{"us", ticksPerUnit / 1_000_000},
		{"s", ticksPerUnit},
	} {
		if strings.HasSuffix(s, suf.name) {
			mul = suf.per
			s = strings.TrimSuffix(s, suf.name)
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fielderr.Parsef("invalid time value %q", s)
	}
	ticks := v * mul
	if ticks < 0 || ticks > 0xFFFFFFFF {
		return 0, fielderr.Rangef("time value out of range")
	}
	return uint32(ticks + 0.5), nil
}

func (TimeType) Format(_ int, v uint32) (string, error) {
	return FormatDouble(float64(v) / ticksPerUnit), nil
}

func (TimeType) Attributes() []*attribute.Attribute { return nil }
