// Package attribute implements Attribute: a named accessor attached to a
// field or a type, addressed by (field, attribute-name, instance) per
// spec.md §3/§4.5.
package attribute

import "github.com/fieldhub/fbserver/internal/fielderr"

type Attribute struct {
	Name      string
	BumpsAttr bool // writes through this attribute advance the ATTR change category

	format func(instance int) (string, error)
	put    func(instance int, value string) error // nil => read-only

	updateIndex []uint64
}

// New builds an Attribute serving count instances. put may be nil for a
// read-only attribute (puts then fail with a StateError).
func New(name string, bumpsAttr bool, count int, format func(int) (string, error), put func(int, string) error) *Attribute {
	return &Attribute{
		Name:        name,
		BumpsAttr:   bumpsAttr,
		format:      format,
		put:         put,
		updateIndex: make([]uint64, count),
	}
}

func (a *Attribute) Format(instance int) (string, error) {
	return a.format(instance)
}

func (a *Attribute) Writable() bool { return a.put != nil }

// Put writes the value. If the write succeeds and the attribute bumps
// ATTR, tick is invoked to allocate a change index that is recorded for
// this instance.
func (a *Attribute) Put(instance int, value string, tick func() uint64) error {
	if a.put == nil {
		return fielderr.Statef("attribute %q is read-only", a.Name)
	}
	if err := a.put(instance, value); err != nil {
		return err
	}
	if a.BumpsAttr {
		a.updateIndex[instance] = tick()
	}
	return nil
}

// Changed reports whether instance's ATTR update index exceeds report.
func (a *Attribute) Changed(instance int, report uint64) bool {
	if !a.BumpsAttr {
		return false
	}
	return a.updateIndex[instance] > report
}
