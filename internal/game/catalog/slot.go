package catalog

import "fmt"

// SlotType identifies a fitting slot category on a dropsuit.
type SlotType int

const (
	// SlotHeavy holds heavy weapons.
	SlotHeavy SlotType = iota
	// SlotLight holds light weapons.
	SlotLight
	// SlotSidearm holds sidearm weapons.
	SlotSidearm
	// SlotGrenade holds grenades.
	SlotGrenade
	// SlotEquipment holds deployable equipment.
	SlotEquipment
	// SlotHi holds high-power modules.
	SlotHi
	// SlotLow holds low-power modules.
	SlotLow
)

// SlotOrder is the fixed order in which slots are scanned and displayed.
var SlotOrder = []SlotType{SlotHeavy, SlotLight, SlotSidearm, SlotGrenade, SlotEquipment, SlotHi, SlotLow}

var slotKeys = map[SlotType]string{
	SlotHeavy:     "heavy_weapon",
	SlotLight:     "light_weapon",
	SlotSidearm:   "sidearm",
	SlotGrenade:   "grenade",
	SlotEquipment: "equipment",
	SlotHi:        "hi_slot",
	SlotLow:       "low_slot",
}

var slotIcons = map[SlotType]string{
	SlotHeavy:     "H",
	SlotLight:     "L",
	SlotSidearm:   "S",
	SlotGrenade:   "G",
	SlotEquipment: "E",
	SlotHi:        "--",
	SlotLow:       "-",
}

// ParseSlotType maps a catalog key such as "hi_slot" to its SlotType.
func ParseSlotType(key string) (SlotType, error) {
	for _, s := range SlotOrder {
		if slotKeys[s] == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown slot type %q", key)
}

// Key returns the catalog property name of the slot, which is also the
// dropsuit property holding its capacity.
func (s SlotType) Key() string {
	if k, ok := slotKeys[s]; ok {
		return k
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Icon returns the short marker used in slot listings.
func (s SlotType) Icon() string {
	return slotIcons[s]
}

// IsWeapon reports whether the slot holds weapons.
func (s SlotType) IsWeapon() bool {
	return s <= SlotGrenade
}

func (s SlotType) String() string {
	return s.Key()
}
