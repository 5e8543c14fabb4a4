// Package fitting assembles a dropsuit, a character, and fitted modules and
// weapons into a loadout and derives its combat statistics.
package fitting

import (
	"fmt"

	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/skill"
	"github.com/markwingerd/dft-old/internal/game/stacking"
)

// State summarises a Fitting for reporting. Every operation is legal in every state.
type State int

const (
	// StateEmpty has no fitted items.
	StateEmpty State = iota
	// StatePopulated has at least one item and is within its CPU and PG budgets.
	StatePopulated
	// StateOverBudget has at least one item and exceeds its CPU or PG budget.
	StateOverBudget
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateOverBudget:
		return "over-budget"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// RejectReason explains why an add did not fit an item.
type RejectReason string

// RejectSlotFull means the item's slot type is already at dropsuit capacity.
const RejectSlotFull RejectReason = "slot_full"

// AddResult reports the outcome of adding an item. A rejected add leaves the
// Fitting unchanged and is not an error.
type AddResult struct {
	Item     *Item
	Slot     catalog.SlotType
	Accepted bool
	Reason   RejectReason
}

// Fitting is the loadout aggregate: one resolved dropsuit, the character it was
// resolved for, and per-slot ordered lists of fitted items.
//
// Invariant: len(Fitted(s)) <= Dropsuit().Capacity(s) for every slot s.
//
// A Fitting is not safe for concurrent use.
type Fitting struct {
	lib       *catalog.Library
	character *skill.Character
	dropsuit  *Dropsuit
	slots     map[catalog.SlotType][]*Item
	ledger    ledger
	order     stacking.Order
}

// Option configures a Fitting.
type Option func(*Fitting)

// WithStackingOrder selects the stacking-penalty ordering policy.
func WithStackingOrder(o stacking.Order) Option {
	return func(f *Fitting) {
		f.order = o
	}
}

// New builds an empty Fitting on the named dropsuit for character.
//
// Precondition: lib and character are non-nil.
// Postcondition: returns *catalog.ItemNotFoundError when the dropsuit is unknown.
func New(lib *catalog.Library, character *skill.Character, dropsuitName string, opts ...Option) (*Fitting, error) {
	entry, err := lib.Dropsuits.Lookup(dropsuitName)
	if err != nil {
		return nil, err
	}
	f := &Fitting{
		lib:       lib,
		character: character,
		slots:     make(map[catalog.SlotType][]*Item, len(catalog.SlotOrder)),
		order:     stacking.Insertion,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.setDropsuit(ResolveDropsuit(entry, character))
	return f, nil
}

func (f *Fitting) setDropsuit(d *Dropsuit) {
	f.dropsuit = d
	f.ledger.baseCPU, _ = d.Stat(catalog.PropCPU)
	f.ledger.basePG, _ = d.Stat(catalog.PropPG)
}

// AddModule resolves and fits the named module.
//
// Postcondition: returns *catalog.ItemNotFoundError for an unknown name; when the
// module's slot is full the Fitting is unchanged and the result is not Accepted.
func (f *Fitting) AddModule(name string) (AddResult, error) {
	return f.Add(catalog.KindModule, name)
}

// AddWeapon resolves and fits the named weapon, applying every fitted module
// that enhances its slot.
//
// Postcondition: as AddModule.
func (f *Fitting) AddWeapon(name string) (AddResult, error) {
	return f.Add(catalog.KindWeapon, name)
}

// Add resolves and fits the named entry of the given kind.
func (f *Fitting) Add(kind catalog.Kind, name string) (AddResult, error) {
	var cat *catalog.Catalog
	switch kind {
	case catalog.KindModule:
		cat = f.lib.Modules
	case catalog.KindWeapon:
		cat = f.lib.Weapons
	default:
		return AddResult{}, fmt.Errorf("fitting: cannot fit %s %q", kind, name)
	}
	entry, err := cat.Lookup(name)
	if err != nil {
		return AddResult{}, err
	}
	it, err := newItem(entry, f.character)
	if err != nil {
		return AddResult{}, fmt.Errorf("fitting: resolving %s %q: %w", kind, name, err)
	}
	if len(f.slots[it.Slot]) >= f.dropsuit.Capacity(it.Slot) {
		return AddResult{Slot: it.Slot, Reason: RejectSlotFull}, nil
	}
	f.slots[it.Slot] = append(f.slots[it.Slot], it)
	f.ledger.add(it)
	f.applyEnhancements()
	return AddResult{Item: it, Slot: it.Slot, Accepted: true}, nil
}

// RemoveModule removes the first fitted item named name, scanning slots in
// catalog.SlotOrder. Weapons are removed the same way.
//
// Postcondition: returns false and leaves the Fitting unchanged when nothing matches.
func (f *Fitting) RemoveModule(name string) bool {
	return f.removeFirst(func(it *Item) bool { return it.Name == name }) != nil
}

// RemoveItem removes the fitted item with the given instance ID.
func (f *Fitting) RemoveItem(instanceID string) bool {
	return f.removeFirst(func(it *Item) bool { return it.InstanceID == instanceID }) != nil
}

func (f *Fitting) removeFirst(match func(*Item) bool) *Item {
	for _, slot := range catalog.SlotOrder {
		items := f.slots[slot]
		for i, it := range items {
			if !match(it) {
				continue
			}
			f.slots[slot] = append(items[:i:i], items[i+1:]...)
			f.ledger.remove(it)
			f.applyEnhancements()
			return it
		}
	}
	return nil
}

// applyEnhancements recomputes every weapon's damage from its resolved value
// and the damage bonus of each fitted module enhancing its slot, in slot order.
func (f *Fitting) applyEnhancements() {
	var boosters []*Item
	for _, slot := range catalog.SlotOrder {
		for _, it := range f.slots[slot] {
			if it.Kind != catalog.KindModule {
				continue
			}
			if _, ok := it.Enhances(); ok {
				boosters = append(boosters, it)
			}
		}
	}
	for _, slot := range catalog.SlotOrder {
		for _, w := range f.slots[slot] {
			if w.Kind != catalog.KindWeapon {
				continue
			}
			w.resetEnhancements()
			for _, m := range boosters {
				target, _ := m.Enhances()
				bonus, ok := m.Get(catalog.PropDamage)
				if target != w.Slot || !ok {
					continue
				}
				w.enhance(bonus)
			}
		}
	}
}

// ChangeCharacter re-resolves the dropsuit and every fitted item for c,
// keeping fitted order and instance IDs.
//
// Precondition: c is non-nil.
func (f *Fitting) ChangeCharacter(c *skill.Character) {
	f.character = c
	f.setDropsuit(ResolveDropsuit(f.dropsuit.entry, c))
	for _, it := range f.ledger.chain {
		it.resolve(c)
	}
	f.applyEnhancements()
}

// Character returns the character the fitting is resolved for.
func (f *Fitting) Character() *skill.Character {
	return f.character
}

// Dropsuit returns the resolved dropsuit.
func (f *Fitting) Dropsuit() *Dropsuit {
	return f.dropsuit
}

// StackingOrder returns the stacking-penalty ordering policy in use.
func (f *Fitting) StackingOrder() stacking.Order {
	return f.order
}

// Fitted returns a copy of the items in slot, in insertion order.
func (f *Fitting) Fitted(slot catalog.SlotType) []*Item {
	items := f.slots[slot]
	out := make([]*Item, len(items))
	copy(out, items)
	return out
}

// Items returns every fitted item in the order it was added.
func (f *Fitting) Items() []*Item {
	out := make([]*Item, len(f.ledger.chain))
	copy(out, f.ledger.chain)
	return out
}

// Len returns the number of fitted items.
func (f *Fitting) Len() int {
	return len(f.ledger.chain)
}

// CurrentCPU returns the CPU used by fitted items.
func (f *Fitting) CurrentCPU() float64 { return f.ledger.currentCPU() }

// MaxCPU returns the CPU ceiling including fitted cpu_bonus items.
func (f *Fitting) MaxCPU() float64 { return f.ledger.maxCPU() }

// CurrentPG returns the powergrid used by fitted items.
func (f *Fitting) CurrentPG() float64 { return f.ledger.currentPG() }

// MaxPG returns the powergrid ceiling including fitted pg_bonus items.
func (f *Fitting) MaxPG() float64 { return f.ledger.maxPG() }

// CPUOver reports how far CPU usage exceeds the ceiling, or false when within budget.
func (f *Fitting) CPUOver() (Overage, bool) {
	return overBy(f.CurrentCPU(), f.MaxCPU())
}

// PGOver reports how far powergrid usage exceeds the ceiling, or false when within budget.
func (f *Fitting) PGOver() (Overage, bool) {
	return overBy(f.CurrentPG(), f.MaxPG())
}

// State returns the reporting state of the fitting.
func (f *Fitting) State() State {
	if f.Len() == 0 {
		return StateEmpty
	}
	_, cpuOver := f.CPUOver()
	_, pgOver := f.PGOver()
	if cpuOver || pgOver {
		return StateOverBudget
	}
	return StatePopulated
}

// SlotRow is one line of the slot listing. Empty rows are placeholders for
// unused capacity.
type SlotRow struct {
	Slot  catalog.SlotType
	Icon  string
	Name  string
	CPU   float64
	PG    float64
	Empty bool
}

// AllModules lists every fitted item followed by empty placeholders up to each
// slot's capacity, in catalog.SlotOrder.
func (f *Fitting) AllModules() []SlotRow {
	var rows []SlotRow
	for _, slot := range catalog.SlotOrder {
		items := f.slots[slot]
		for _, it := range items {
			rows = append(rows, SlotRow{Slot: slot, Icon: slot.Icon(), Name: it.Name, CPU: it.CPU(), PG: it.PG()})
		}
		for i := len(items); i < f.dropsuit.Capacity(slot); i++ {
			rows = append(rows, SlotRow{Slot: slot, Icon: slot.Icon(), Empty: true})
		}
	}
	return rows
}
