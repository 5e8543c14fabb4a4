package catalog

import (
	"errors"
	"fmt"
)

// Kind identifies which catalog an entry belongs to.
type Kind string

const (
	KindModule   Kind = "module"
	KindWeapon   Kind = "weapon"
	KindDropsuit Kind = "dropsuit"
)

// Well-known property names.
const (
	PropSlotType = "slot_type"
	PropCPU      = "cpu"
	PropPG       = "pg"
	PropCPUBonus = "cpu_bonus"
	PropPGBonus  = "pg_bonus"
	PropEnhances = "enhances"
	PropDamage   = "damage"
)

// ErrItemNotFound is matched by every ItemNotFoundError via errors.Is.
var ErrItemNotFound = errors.New("item not found")

// ItemNotFoundError reports a name that is absent from a catalog.
type ItemNotFoundError struct {
	Kind Kind
	Name string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Unwrap returns ErrItemNotFound.
func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// Entry is the static definition of a module, weapon, or dropsuit.
type Entry struct {
	Name     string
	Category string
	Kind     Kind
	// Properties maps property names to their base values.
	Properties map[string]Value
	// Skills maps a property name to the skills that modify it.
	Skills map[string][]string
}

// Number returns the numeric property prop, or false when it is absent or text.
func (e *Entry) Number(prop string) (float64, bool) {
	v, ok := e.Properties[prop]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Text returns the textual property prop, or false when it is absent or numeric.
func (e *Entry) Text(prop string) (string, bool) {
	v, ok := e.Properties[prop]
	if !ok || !v.IsText() {
		return "", false
	}
	return v.String(), true
}

// SlotType returns the slot the entry is fitted into.
func (e *Entry) SlotType() (SlotType, error) {
	key, ok := e.Text(PropSlotType)
	if !ok {
		return 0, fmt.Errorf("%s %q has no slot_type", e.Kind, e.Name)
	}
	return ParseSlotType(key)
}

// Enhances returns the weapon slot this entry boosts, if any.
func (e *Entry) Enhances() (SlotType, bool) {
	key, ok := e.Text(PropEnhances)
	if !ok {
		return 0, false
	}
	s, err := ParseSlotType(key)
	if err != nil {
		return 0, false
	}
	return s, true
}

// Validate checks that the Entry satisfies its invariants.
//
// Precondition: e is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (e *Entry) Validate() error {
	var errs []error
	if e.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch e.Kind {
	case KindModule, KindWeapon:
		slot, err := e.SlotType()
		if err != nil {
			errs = append(errs, err)
		} else if e.Kind == KindWeapon && !slot.IsWeapon() {
			errs = append(errs, fmt.Errorf("weapon slot_type must be a weapon slot, got %q", slot.Key()))
		}
		if key, ok := e.Text(PropEnhances); ok {
			if _, err := ParseSlotType(key); err != nil {
				errs = append(errs, fmt.Errorf("enhances: %w", err))
			}
		}
	case KindDropsuit:
		for _, slot := range SlotOrder {
			if len(e.Skills[slot.Key()]) > 0 {
				errs = append(errs, fmt.Errorf("slot capacity %q must not be skill-modified", slot.Key()))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("Kind must be one of module, weapon, dropsuit; got %q", e.Kind))
	}
	for prop := range e.Skills {
		if _, ok := e.Properties[prop]; !ok {
			errs = append(errs, fmt.Errorf("skills annotate unknown property %q", prop))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s %q validation failed: %v", e.Kind, e.Name, errs)
	}
	return nil
}
