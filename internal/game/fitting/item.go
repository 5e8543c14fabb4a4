package fitting

import (
	"github.com/google/uuid"

	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/modifier"
)

// Item is a module or weapon resolved for one character and fitted to a
// dropsuit. Items are created on add and discarded on remove.
type Item struct {
	// InstanceID distinguishes repeated fittings of the same catalog entry.
	InstanceID string
	Name       string
	Kind       catalog.Kind
	Slot       catalog.SlotType

	entry *catalog.Entry
	// resolved holds the skill-resolved properties; props additionally carries
	// module enhancements applied to weapon damage.
	resolved map[string]catalog.Value
	props    map[string]catalog.Value
}

func newItem(e *catalog.Entry, c modifier.Leveler) (*Item, error) {
	slot, err := e.SlotType()
	if err != nil {
		return nil, err
	}
	it := &Item{
		InstanceID: uuid.New().String(),
		Name:       e.Name,
		Kind:       e.Kind,
		Slot:       slot,
		entry:      e,
	}
	it.resolve(c)
	return it, nil
}

func (it *Item) resolve(c modifier.Leveler) {
	it.resolved = modifier.ResolveEntry(it.entry, c)
	it.resetEnhancements()
}

func (it *Item) resetEnhancements() {
	it.props = make(map[string]catalog.Value, len(it.resolved))
	for k, v := range it.resolved {
		it.props[k] = v
	}
}

// enhance multiplies the weapon's damage by (1 + bonus).
func (it *Item) enhance(bonus float64) {
	dmg, ok := it.Get(catalog.PropDamage)
	if !ok {
		return
	}
	it.props[catalog.PropDamage] = catalog.Number(dmg * (1 + bonus))
}

// Get returns the numeric property stat, or false when the item does not
// declare it or declares it as text.
func (it *Item) Get(stat string) (float64, bool) {
	v, ok := it.props[stat]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Text returns the textual property prop, or false when absent or numeric.
func (it *Item) Text(prop string) (string, bool) {
	v, ok := it.props[prop]
	if !ok || !v.IsText() {
		return "", false
	}
	return v.String(), true
}

// Properties returns a copy of the item's effective property values.
func (it *Item) Properties() map[string]catalog.Value {
	out := make(map[string]catalog.Value, len(it.props))
	for k, v := range it.props {
		out[k] = v
	}
	return out
}

// CPU returns the resolved CPU cost; 0 when undeclared.
func (it *Item) CPU() float64 {
	v, _ := it.Get(catalog.PropCPU)
	return v
}

// PG returns the resolved powergrid cost; 0 when undeclared.
func (it *Item) PG() float64 {
	v, _ := it.Get(catalog.PropPG)
	return v
}

// Enhances returns the weapon slot this item boosts, if any.
func (it *Item) Enhances() (catalog.SlotType, bool) {
	return it.entry.Enhances()
}

// Entry returns the catalog entry the item was resolved from.
func (it *Item) Entry() *catalog.Entry {
	return it.entry
}
