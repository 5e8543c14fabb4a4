package fitting_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/skill"
)

// props builds a property map from alternating name/value pairs. String values
// become text; numeric values become numbers.
func props(kv ...interface{}) map[string]catalog.Value {
	out := make(map[string]catalog.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name := kv[i].(string)
		switch v := kv[i+1].(type) {
		case string:
			out[name] = catalog.Text(v)
		case int:
			out[name] = catalog.Number(float64(v))
		case float64:
			out[name] = catalog.Number(v)
		}
	}
	return out
}

func entry(kind catalog.Kind, name string, p map[string]catalog.Value, skills map[string][]string) *catalog.Entry {
	if skills == nil {
		skills = map[string][]string{}
	}
	return &catalog.Entry{Name: name, Category: "test", Kind: kind, Properties: p, Skills: skills}
}

func testLibrary(t testing.TB) *catalog.Library {
	t.Helper()
	skills, err := skill.NewCatalog(
		&skill.Skill{Name: "Circuitry", Category: "Engineering", Effect: 0.05},
		&skill.Skill{Name: "Shield Control", Category: "Shields", Effect: 0.05},
		&skill.Skill{Name: "Weaponry", Category: "Weaponry", Effect: 0.05},
	)
	require.NoError(t, err)

	dropsuits, err := catalog.NewCatalog(catalog.KindDropsuit,
		entry(catalog.KindDropsuit, "Test Suit", props(
			"cpu", 100, "pg", 50,
			"heavy_weapon", 0, "light_weapon", 1, "sidearm", 1, "grenade", 1, "equipment", 1,
			"hi_slot", 4, "low_slot", 3,
			"shield_hp", 100, "armor_hp", 90, "armor_repair_rate", 0,
			"shield_recharge", 0.5, "movement_speed", 5, "sprint_speed", 7.8,
			"scan_profile", 45, "stamina", 195,
		), map[string][]string{"cpu": {"Circuitry"}, "shield_hp": {"Shield Control"}}),
		entry(catalog.KindDropsuit, "Tiny Suit", props(
			"cpu", 10, "pg", 10, "light_weapon", 1, "hi_slot", 1,
		), nil),
	)
	require.NoError(t, err)

	modules, err := catalog.NewCatalog(catalog.KindModule,
		entry(catalog.KindModule, "Shield Extender", props("slot_type", "hi_slot", "cpu", 10, "pg", 2, "shield_hp", 20), nil),
		entry(catalog.KindModule, "Shield Recharger", props("slot_type", "hi_slot", "cpu", 5, "pg", 1, "shield_recharge", 0.42), nil),
		entry(catalog.KindModule, "Shield Booster", props("slot_type", "hi_slot", "cpu", 4, "pg", 1, "shield_recharge", 0.1), nil),
		entry(catalog.KindModule, "Damage Modifier", props("slot_type", "hi_slot", "cpu", 8, "pg", 1, "enhances", "light_weapon", "damage", 0.1), nil),
		entry(catalog.KindModule, "Sidearm Modifier", props("slot_type", "hi_slot", "cpu", 8, "pg", 1, "enhances", "sidearm", "damage", 0.2), nil),
		entry(catalog.KindModule, "CPU Upgrade", props("slot_type", "low_slot", "cpu", 0, "pg", 1, "cpu_bonus", 0.1), nil),
		entry(catalog.KindModule, "Fine CPU Upgrade", props("slot_type", "low_slot", "cpu", 1.3, "pg", 0.7, "cpu_bonus", 0.07), nil),
		entry(catalog.KindModule, "PG Upgrade", props("slot_type", "low_slot", "cpu", 5, "pg", 0, "pg_bonus", 7), nil),
		entry(catalog.KindModule, "Armor Plate", props("slot_type", "low_slot", "cpu", 3, "pg", 2, "armor_hp", 50, "movement_speed", -0.1), nil),
		entry(catalog.KindModule, "Heavy Processor", props("slot_type", "low_slot", "cpu", 110, "pg", 0), nil),
		entry(catalog.KindModule, "Repair Tool", props("slot_type", "equipment", "cpu", 15, "pg", 7), nil),
	)
	require.NoError(t, err)

	weapons, err := catalog.NewCatalog(catalog.KindWeapon,
		entry(catalog.KindWeapon, "Rifle", props("slot_type", "light_weapon", "cpu", 20, "pg", 4, "damage", 100), map[string][]string{"damage": {"Weaponry"}}),
		entry(catalog.KindWeapon, "Pistol", props("slot_type", "sidearm", "cpu", 10, "pg", 2, "damage", 50), nil),
	)
	require.NoError(t, err)

	lib := &catalog.Library{Skills: skills, Modules: modules, Weapons: weapons, Dropsuits: dropsuits}
	require.NoError(t, lib.Validate())
	return lib
}

func untrained(lib *catalog.Library) *skill.Character {
	return skill.NewCharacter("Untrained", lib.Skills)
}
