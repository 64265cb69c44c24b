package classes

import (
	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/regctx"
)

// BitOut exposes a span of the shared 1024-bit capture mirror. Base is the
// bit-bus index of instance 0; instance n reads bit Base+n. Refresh of the
// underlying mirror is driven externally (the hardware poll loop), not by
// Get — Get only reads whatever the mirror last captured (spec.md §4.6).
type BitOut struct {
	base

	Name  string
	Base  int
	count int
}

func NewBitOut(name string, busBase, count int) *BitOut {
	return &BitOut{Name: name, Base: busBase, count: count}
}

func (b *BitOut) Count() int         { return b.count }
func (b *BitOut) Category() Category { return CatBits }

func (b *BitOut) index(number int) (int, error) {
	if number < 0 || number >= b.count {
		return 0, fielderr.Rangef("instance %d out of range [0,%d)", number, b.count)
	}
	return b.Base + number, nil
}

func (b *BitOut) Get(ctx *regctx.Context, number int) (string, error) {
	i, err := b.index(number)
	if err != nil {
		return "", err
	}
	if ctx.Capture.BitValue(i) {
		return "1", nil
	}
	return "0", nil
}

func (b *BitOut) Changed(ctx *regctx.Context, number int, report uint64) bool {
	i, err := b.index(number)
	if err != nil {
		return false
	}
	return ctx.Capture.BitChanged(i, report)
}

// Attributes binds CAPTURE (read-write, toggles the bit's group mask) and
// CAPTURE_INDEX (read-only, the derived capture ordinal) against ctx's
// shared capture mirror.
func (b *BitOut) Attributes(ctx *regctx.Context) []*attribute.Attribute {
	return []*attribute.Attribute{
		attribute.New("CAPTURE", true, b.count,
			func(n int) (string, error) {
				i, err := b.index(n)
				if err != nil {
					return "", err
				}
				if ctx.Capture.BitCaptured(i) {
					return "1", nil
				}
				return "0", nil
			},
			func(n int, v string) error {
				i, err := b.index(n)
				if err != nil {
					return err
				}
				on, err := parseBool(v)
				if err != nil {
					return err
				}
				ctx.Capture.SetBitCapture(i, on)
				return nil
			}),
		attribute.New("CAPTURE_INDEX", false, b.count,
			func(n int) (string, error) {
				i, err := b.index(n)
				if err != nil {
					return "", err
				}
				return ctx.Capture.BitCaptureIndexString(i), nil
			},
			nil),
	}
}

func parseBool(v string) (bool, error) {
	switch v {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fielderr.Parsef("invalid boolean value %q", v)
	}
}
