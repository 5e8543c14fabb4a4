package fitting

import (
	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/modifier"
)

// Dropsuit is a chassis entry resolved for one character.
type Dropsuit struct {
	Name  string
	entry *catalog.Entry
	props map[string]catalog.Value
}

// ResolveDropsuit resolves every property of e for c.
//
// Precondition: e.Kind is catalog.KindDropsuit.
func ResolveDropsuit(e *catalog.Entry, c modifier.Leveler) *Dropsuit {
	return &Dropsuit{
		Name:  e.Name,
		entry: e,
		props: modifier.ResolveEntry(e, c),
	}
}

// Stat returns the resolved numeric property name.
func (d *Dropsuit) Stat(name string) (float64, bool) {
	v, ok := d.props[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Capacity returns how many items the slot holds; 0 when undeclared.
func (d *Dropsuit) Capacity(slot catalog.SlotType) int {
	f, ok := d.Stat(slot.Key())
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// Properties returns a copy of the resolved property values.
func (d *Dropsuit) Properties() map[string]catalog.Value {
	out := make(map[string]catalog.Value, len(d.props))
	for k, v := range d.props {
		out[k] = v
	}
	return out
}

// Entry returns the catalog entry the dropsuit was resolved from.
func (d *Dropsuit) Entry() *catalog.Entry {
	return d.entry
}
