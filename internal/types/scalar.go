package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/fielderr"
)

// continuousType backs both ScalarType and PositionType: a signed 32-bit
// register presented as scale*raw+offset, with per-instance SCALE, OFFSET
// and UNITS attributes (spec.md §4.4). Parse divides by scale after
// subtracting offset and rounds to nearest; Format does the inverse and
// renders with FormatDouble.
type continuousType struct {
	name   string
	scale  []float64
	offset []float64
	units  []string
}

func newContinuous(name string, count int, defaultScale, defaultOffset float64, defaultUnits string) *continuousType {
	t := &continuousType{
		name:   name,
		scale:  make([]float64, count),
		offset: make([]float64, count),
		units:  make([]string, count),
	}
	for i := range t.scale {
		t.scale[i] = defaultScale
		t.offset[i] = defaultOffset
		t.units[i] = defaultUnits
	}
	return t
}

func (t *continuousType) Name() string { return t.name }

func (t *continuousType) Parse(number int, s string) (uint32, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fielderr.Parsef("invalid %s value %q", t.name, s)
	}
	raw := math.Round((x - t.offset[number]) / t.scale[number])
	if raw < math.MinInt32 || raw > math.MaxInt32 {
		return 0, fielderr.Rangef("%s value %v out of range", t.name, x)
	}
	return uint32(int32(raw)), nil
}

func (t *continuousType) Format(number int, v uint32) (string, error) {
	x := float64(int32(v))*t.scale[number] + t.offset[number]
	return FormatDouble(x), nil
}

func (t *continuousType) Attributes() []*attribute.Attribute {
	count := len(t.scale)
	return []*attribute.Attribute{
		attribute.New("SCALE", true, count,
			func(n int) (string, error) { return FormatDouble(t.scale[n]), nil },
			func(n int, v string) error {
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return fielderr.Parsef("invalid scale %q", v)
				}
				t.scale[n] = f
				return nil
			}),
		attribute.New("OFFSET", true, count,
			func(n int) (string, error) { return FormatDouble(t.offset[n]), nil },
			func(n int, v string) error {
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return fielderr.Parsef("invalid offset %q", v)
				}
				t.offset[n] = f
				return nil
			}),
		attribute.New("UNITS", true, count,
			func(n int) (string, error) { return t.units[n], nil },
			func(n int, v string) error { t.units[n] = v; return nil }),
	}
}

// ScalarType: default scale 1, offset 0, no units — a plain engineering
// value over a raw register.
type ScalarType struct{ *continuousType }

func NewScalar(count int) *ScalarType {
	return &ScalarType{newContinuous("scalar", count, 1, 0, "")}
}

// PositionType: same mechanics as ScalarType; its only different default
// is UNITS "counts" (scale 1, offset 0, so values read out as raw counts).
type PositionType struct{ *continuousType }

func NewPosition(count int) *PositionType {
	return &PositionType{newContinuous("position", count, 1, 0, "counts")}
}
