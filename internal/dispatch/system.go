package dispatch

import (
	"fmt"
	"strings"

	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/fielderr"
)

// systemCommand backs one "*NAME" command. get/put may be nil if the
// command doesn't support that operation.
type systemCommand struct {
	get func(tr *change.Tracker) Result
	put func(tr *change.Tracker, value string) Result
}

var categoryNames = map[string]classes.Category{
	"CONFIG":   classes.CatConfig,
	"BITS":     classes.CatBits,
	"POSITION": classes.CatPosition,
	"READ":     classes.CatRead,
	"ATTR":     classes.CatAttr,
	"TABLE":    classes.CatTable,
}

func buildSystemCommands(d *Dispatcher, ident string) map[string]systemCommand {
	return map[string]systemCommand{
		"IDN": {
			get: func(*change.Tracker) Result { return Result{Kind: KindOne, Value: ident} },
		},
		"BLOCKS": {
			get: func(*change.Tracker) Result {
				var lines []string
				for _, b := range d.reg.Blocks() {
					lines = append(lines, fmt.Sprintf("%s %d", b.Name, b.Count))
				}
				return Result{Kind: KindMany, Items: lines}
			},
		},
		"CAPTURE": {
			get: func(*change.Tracker) Result {
				var lines []string
				for _, i := range d.ctx.Capture.CapturedPositions() {
					lines = append(lines, fmt.Sprintf("POSITION%d", i))
				}
				for _, g := range d.ctx.Capture.CapturedGroups() {
					lines = append(lines, fmt.Sprintf("BITS%d", g))
				}
				return Result{Kind: KindMany, Items: lines}
			},
			put: func(*change.Tracker, string) Result {
				d.ctx.Capture.ResetCapture()
				return Result{Kind: KindOne}
			},
		},
	}
}

// dispatchSystem handles the "*"-prefixed command set: plain commands
// ("*IDN?", "*BLOCKS?", "*CAPTURE?"/"*CAPTURE=") and the "*CHANGES" family,
// which additionally takes an optional ".<CATEGORY>" suffix selecting a
// single change category instead of all six (spec.md §4.8, §4.9).
func (d *Dispatcher) dispatchSystem(tr *change.Tracker, rest string) Result {
	idx := strings.IndexAny(rest, "?=")
	if idx < 0 {
		return errResult(fielderr.Parsef("malformed system command %q", "*"+rest))
	}
	name, op, value := rest[:idx], rest[idx], rest[idx+1:]

	if name == "CHANGES" || strings.HasPrefix(name, "CHANGES.") {
		return d.dispatchChanges(tr, name, op, value)
	}

	cmd, ok := d.sys[name]
	if !ok {
		return errResult(fielderr.Lookupf("unknown system command %q", "*"+name))
	}
	switch op {
	case '?':
		if cmd.get == nil {
			return errResult(fielderr.Statef("*%s does not support '?'", name))
		}
		return cmd.get(tr)
	case '=':
		if cmd.put == nil {
			return errResult(fielderr.Statef("*%s does not support '='", name))
		}
		return cmd.put(tr, value)
	default:
		return errResult(fielderr.Internalf("unreachable operator %q", op))
	}
}

func (d *Dispatcher) dispatchChanges(tr *change.Tracker, name string, op byte, value string) Result {
	if op != '?' {
		return errResult(fielderr.Statef("*CHANGES only supports '?'"))
	}
	selected := allCategories()
	if name != "CHANGES" {
		catName := strings.TrimPrefix(name, "CHANGES.")
		cat, ok := categoryNames[catName]
		if !ok {
			return errResult(fielderr.Lookupf("unknown change category %q", catName))
		}
		selected = [classes.NumCategories]bool{}
		selected[cat] = true
	}

	items := tr.Report(d.ctx, d.reg, selected)
	lines := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Err != nil:
			lines[i] = it.Name + " (error)"
		case it.NoValue:
			lines[i] = it.Name + "<"
		default:
			lines[i] = it.Name + "=" + it.Value
		}
	}
	return Result{Kind: KindMany, Items: lines}
}

func allCategories() [classes.NumCategories]bool {
	var s [classes.NumCategories]bool
	for i := range s {
		s[i] = true
	}
	return s
}
