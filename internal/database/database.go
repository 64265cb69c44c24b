// Package database defines DatabaseLoader — the boundary spec.md §1
// declares external, since the on-disk database text format itself is
// unspecified — plus TextLoader, a small reference implementation that
// can build a Registry good enough to exercise the rest of the module
// without committing to any particular production file format.
package database

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/fielderr"
	"github.com/fieldhub/fbserver/internal/mux"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/fieldhub/fbserver/internal/types"
)

// Loader builds a Registry and its shared bus mux tables from whatever
// backing store a deployment uses. The core only ever consumes the
// result; how it got there is not this module's concern.
type Loader interface {
	Load(r io.Reader) (*registry.Registry, *Muxes, error)
}

// Muxes holds the two bus-wide mux tables bit_mux/pos_mux fields select
// from (spec.md §3, §4.2).
type Muxes struct {
	Bit *mux.Lookup
	Pos *mux.Lookup
}

// TextLoader reads a small line-oriented format:
//
//	BLOCK   <name> <base> <count>
//	FIELD   <block> <name> PARAM <type>
//	FIELD   <block> <name> WRITE <type>
//	FIELD   <block> <name> READ  <type> <offset>
//	FIELD   <block> <name> BIT_OUT <bus-base>
//	FIELD   <block> <name> POS_OUT <bus-base>
//	FIELD   <block> <name> BIT_MUX <offset>
//	FIELD   <block> <name> POS_MUX <offset>
//	FIELD   <block> <name> TABLE <offset> <capacity>
//	FIELD   <block> <name> TIME  <offset>
//	MUXBIT  <name> <index>
//	MUXPOS  <name> <index>
//
// Blank lines and lines starting with "#" are ignored. This is
// deliberately small: it exists to exercise Loader end to end, not to
// define a production database format (spec.md §1 leaves that format
// unspecified, owned by the deployment).
type TextLoader struct {
	BitBusSize int
	PosBusSize int
}

func NewTextLoader(bitBusSize, posBusSize int) *TextLoader {
	return &TextLoader{BitBusSize: bitBusSize, PosBusSize: posBusSize}
}

func (tl *TextLoader) Load(r io.Reader) (*registry.Registry, *Muxes, error) {
	reg := registry.New()
	muxes := &Muxes{Bit: mux.New(tl.BitBusSize), Pos: mux.New(tl.PosBusSize)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "BLOCK":
			err = loadBlock(reg, fields)
		case "FIELD":
			err = loadField(reg, muxes, fields)
		case "MUXBIT":
			err = loadMuxEntry(muxes.Bit, fields)
		case "MUXPOS":
			err = loadMuxEntry(muxes.Pos, fields)
		default:
			err = fielderr.Parsef("unknown directive %q", fields[0])
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fielderr.Wrap(fielderr.Io, err, "reading database")
	}
	return reg, muxes, nil
}

func loadBlock(reg *registry.Registry, fields []string) error {
	if len(fields) != 4 {
		return fielderr.Parsef("BLOCK wants name, base, count")
	}
	base, err := parseUint32(fields[2])
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(fields[3])
	if err != nil {
		return fielderr.Parsef("invalid block count %q", fields[3])
	}
	_, err = reg.AddBlock(fields[1], base, count)
	return err
}

func loadMuxEntry(l *mux.Lookup, fields []string) error {
	if len(fields) != 3 {
		return fielderr.Parsef("%s wants name, index", fields[0])
	}
	idx, err := strconv.Atoi(fields[2])
	if err != nil {
		return fielderr.Parsef("invalid mux index %q", fields[2])
	}
	return l.Add(fields[1], idx)
}

func loadField(reg *registry.Registry, muxes *Muxes, fields []string) error {
	if len(fields) < 4 {
		return fielderr.Parsef("FIELD wants block, name, kind, ...")
	}
	blockName, name, kind := fields[1], fields[2], fields[3]
	block, ok := reg.Block(blockName)
	if !ok {
		return fielderr.Lookupf("FIELD refers to unknown block %q", blockName)
	}
	args := fields[4:]
	count := block.Count
	base := block.Base

	switch kind {
	case "PARAM":
		ty, err := lookupType(args, count)
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewParam(name, ty, base, 0, count))
	case "WRITE":
		ty, err := lookupType(args, count)
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewWrite(name, ty, base, 0, count))
	case "READ":
		if len(args) != 2 {
			return fielderr.Parsef("READ wants type, offset")
		}
		ty, err := lookupType(args[:1], count)
		if err != nil {
			return err
		}
		offset, err := parseUint32(args[1])
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewRead(name, ty, base, offset, count))
	case "BIT_OUT":
		if len(args) != 1 {
			return fielderr.Parsef("BIT_OUT wants bus-base")
		}
		busBase, err := strconv.Atoi(args[0])
		if err != nil {
			return fielderr.Parsef("invalid bus base %q", args[0])
		}
		return block.AddField(name, classes.NewBitOut(name, busBase, count))
	case "POS_OUT":
		if len(args) != 1 {
			return fielderr.Parsef("POS_OUT wants bus-base")
		}
		busBase, err := strconv.Atoi(args[0])
		if err != nil {
			return fielderr.Parsef("invalid bus base %q", args[0])
		}
		return block.AddField(name, classes.NewPosOut(name, busBase, count))
	case "BIT_MUX":
		offset, err := parseFieldOffset(args)
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewBitMux(name, muxes.Bit, base, offset, count))
	case "POS_MUX":
		offset, err := parseFieldOffset(args)
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewPosMux(name, muxes.Pos, base, offset, count))
	case "TABLE":
		if len(args) != 2 {
			return fielderr.Parsef("TABLE wants offset, capacity")
		}
		offset, err := parseUint32(args[0])
		if err != nil {
			return err
		}
		capacity, err := strconv.Atoi(args[1])
		if err != nil {
			return fielderr.Parsef("invalid table capacity %q", args[1])
		}
		return block.AddField(name, classes.NewTable(name, base, offset, capacity, count))
	case "TIME":
		offset, err := parseFieldOffset(args)
		if err != nil {
			return err
		}
		return block.AddField(name, classes.NewTime(name, base, offset, count))
	default:
		return fielderr.Parsef("unknown field kind %q", kind)
	}
}

func parseFieldOffset(args []string) (uint32, error) {
	if len(args) != 1 {
		return 0, fielderr.Parsef("field wants a single offset argument")
	}
	return parseUint32(args[0])
}

func lookupType(args []string, count int) (types.Type, error) {
	if len(args) != 1 {
		return nil, fielderr.Parsef("field wants exactly one type name")
	}
	switch args[0] {
	case "uint":
		return &types.UintType{}, nil
	case "int":
		return &types.IntType{}, nil
	case "bit":
		return &types.BitType{}, nil
	case "action":
		return &types.ActionType{}, nil
	case "lut":
		return &types.LutType{}, nil
	case "scalar":
		return types.NewScalar(count), nil
	case "position":
		return types.NewPosition(count), nil
	case "time":
		return &types.TimeType{}, nil
	default:
		return nil, fielderr.Lookupf("unknown type %q", args[0])
	}
}

func parseUint32(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fielderr.Parsef("invalid number %q", s)
	}
	return uint32(v), nil
}
