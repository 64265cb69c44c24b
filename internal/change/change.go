// Package change implements ChangeTracker: the per-connection cursor that
// drives "*CHANGES" delta reports by comparing every field's per-category
// update index against the last index this connection has seen (spec.md
// §4.8).
package change

import (
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/clock"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
)

// attrSuffix joins a field's wire name to one of its attribute's names,
// e.g. "TTLIN1.VAL" + "CAPTURE" -> "TTLIN1.VAL.CAPTURE" (spec.md §4.5).
func attrSuffix(name, attr string) string { return name + "." + attr }

// Tracker holds one report index per Category for a single connection.
// Zero value starts every category at 0, so the first "*CHANGES" report
// after connecting reports every field that has ever changed.
type Tracker struct {
	reportIndex [classes.NumCategories]uint64
}

// Item is one line of a "*CHANGES" report: a changed entity and its
// current formatted value, or an error if formatting failed. A TABLE
// change carries neither (spec.md §4.8 step 4: reported as "name<", since
// a table has no scalar value to read back) and sets NoValue instead.
type Item struct {
	Name    string
	Value   string
	NoValue bool
	Err     error
}

// Report walks every selected category, compares each field instance's
// change index against this tracker's last-seen index for that category,
// and returns the changed entities with freshly formatted values — per
// spec.md §4.8 steps 1-5. Categories not in selected are left untouched
// (their report index is not advanced) so a later "*CHANGES" with that
// category selected still reports from where it left off. Unselected
// categories are simply skipped; clock.Unselected is not involved.
func (tr *Tracker) Report(ctx *regctx.Context, reg *registry.Registry, selected [classes.NumCategories]bool) []Item {
	var items []Item
	now := ctx.Clock.Now()

	if selected[classes.CatAttr] {
		items = append(items, tr.reportAttrs(ctx, reg, tr.reportIndex[classes.CatAttr])...)
	}

	for _, block := range reg.Blocks() {
		for _, field := range block.Fields() {
			cat := field.Class.Category()
			if cat == classes.CatAttr || !selected[cat] {
				continue
			}
			report := tr.reportIndex[cat]
			for instance := 0; instance < block.Count; instance++ {
				if !field.Class.Changed(ctx, instance, report) {
					continue
				}
				name := registry.WireName(block, instance, field)
				if cat == classes.CatTable {
					items = append(items, Item{Name: name, NoValue: true})
					continue
				}
				value, err := field.Class.Get(ctx, instance)
				items = append(items, Item{Name: name, Value: value, Err: err})
			}
		}
	}

	for cat, sel := range selected {
		if sel {
			tr.reportIndex[cat] = now
		}
	}
	return items
}

// reportAttrs walks every field's attribute set — not its Class's own
// primary Category — since an ATTR-bumping attribute (e.g. CAPTURE) can
// hang off a field of any other category (spec.md §4.5, §4.8 step 4).
func (tr *Tracker) reportAttrs(ctx *regctx.Context, reg *registry.Registry, report uint64) []Item {
	var items []Item
	for _, block := range reg.Blocks() {
		for _, field := range block.Fields() {
			attrs := field.Attributes(ctx)
			if len(attrs) == 0 {
				continue
			}
			for instance := 0; instance < block.Count; instance++ {
				name := registry.WireName(block, instance, field)
				for _, attr := range attrs {
					if !attr.Changed(instance, report) {
						continue
					}
					value, err := attr.Format(instance)
					items = append(items, Item{Name: attrSuffix(name, attr.Name), Value: value, Err: err})
				}
			}
		}
	}
	return items
}

// HasChanges is the short-circuiting variant used by the persistence
// scheduler to decide whether CONFIG has anything new to flush, without
// building a full report or advancing this tracker's cursor.
func (tr *Tracker) HasChanges(ctx *regctx.Context, reg *registry.Registry, cat classes.Category) bool {
	report := tr.reportIndex[cat]
	for _, block := range reg.Blocks() {
		for _, field := range block.Fields() {
			if field.Class.Category() != cat {
				continue
			}
			for instance := 0; instance < block.Count; instance++ {
				if field.Class.Changed(ctx, instance, report) {
					return true
				}
			}
		}
	}
	return false
}

// AdvanceCategory advances a single category's report index to the
// clock's current value, used by the persistence scheduler's own private
// tracker once a CONFIG snapshot has been durably written.
func (tr *Tracker) AdvanceCategory(c *clock.Clock, cat classes.Category) {
	tr.reportIndex[cat] = c.Now()
}

// AdvanceAll sets every category's report index to the clock's current
// value without producing a report, so the next "*CHANGES" report starts
// from "nothing missed so far".
func (tr *Tracker) AdvanceAll(c *clock.Clock) {
	now := c.Now()
	for i := range tr.reportIndex {
		tr.reportIndex[i] = now
	}
}
