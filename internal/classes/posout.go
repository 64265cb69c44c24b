package classes

import (
	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/enum"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/types"
)

// captureSubtypes enumerates the four ways a position-bus entry may be
// captured, matching the hardware's own CAPTURE_SUBTYPE encoding.
var captureSubtypes = enum.NewStatic([]enum.Entry{
	{Name: "POSN", Value: 0},
	{Name: "ADC", Value: 1},
	{Name: "CONST", Value: 2},
	{Name: "ENCODER", Value: 3},
})

// PosOut exposes a span of the shared 32-entry position capture mirror,
// formatted through a scale/offset/units Type the same way Param and Read
// present engineering units (spec.md §4.4, §4.6).
type PosOut struct {
	base

	Name     string
	Base     int
	Type     *types.PositionType
	subtype  []uint32
	count    int
}

func NewPosOut(name string, busBase, count int) *PosOut {
	return &PosOut{
		Name:    name,
		Base:    busBase,
		Type:    types.NewPosition(count),
		subtype: make([]uint32, count),
		count:   count,
	}
}

func (p *PosOut) Count() int         { return p.count }
func (p *PosOut) Category() Category { return CatPosition }

func (p *PosOut) index(number int) (int, error) {
	if number < 0 || number >= p.count {
		return 0, fielderr.Rangef("instance %d out of range [0,%d)", number, p.count)
	}
	return p.Base + number, nil
}

func (p *PosOut) Get(ctx *regctx.Context, number int) (string, error) {
	i, err := p.index(number)
	if err != nil {
		return "", err
	}
	return p.Type.Format(number, ctx.Capture.PositionValue(i))
}

func (p *PosOut) Changed(ctx *regctx.Context, number int, report uint64) bool {
	i, err := p.index(number)
	if err != nil {
		return false
	}
	return ctx.Capture.PositionChanged(i, report)
}

func (p *PosOut) Attributes(ctx *regctx.Context) []*attribute.Attribute {
	attrs := []*attribute.Attribute{
		attribute.New("CAPTURE", true, p.count,
			func(n int) (string, error) {
				i, err := p.index(n)
				if err != nil {
					return "", err
				}
				if ctx.Capture.PosCaptured(i) {
					return "1", nil
				}
				return "0", nil
			},
			func(n int, v string) error {
				i, err := p.index(n)
				if err != nil {
					return err
				}
				on, err := parseBool(v)
				if err != nil {
					return err
				}
				ctx.Capture.SetPosCapture(i, on)
				return nil
			}),
		attribute.New("CAPTURE_INDEX", false, p.count,
			func(n int) (string, error) {
				i, err := p.index(n)
				if err != nil {
					return "", err
				}
				return ctx.Capture.PosCaptureIndexString(i), nil
			},
			nil),
		attribute.New("CAPTURE_SUBTYPE", true, p.count,
			func(n int) (string, error) { return captureSubtypes.Format(p.subtype[n]), nil },
			func(n int, v string) error {
				val, err := captureSubtypes.Parse(v)
				if err != nil {
					return err
				}
				p.subtype[n] = val
				return nil
			}),
	}
	return append(attrs, p.Type.Attributes()...)
}
