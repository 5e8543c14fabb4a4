// Package modifier resolves catalog property values against a character's
// trained skills.
package modifier

import "github.com/markwingerd/dft-old/internal/game/catalog"

// Leveler reports the combined effect of a skill at the trained level.
//
// *skill.Character satisfies Leveler.
type Leveler interface {
	LeveledEffect(name string) float64
}

// Modifier returns the summed leveled effect of every named skill.
func Modifier(skills []string, c Leveler) float64 {
	m := 0.0
	for _, name := range skills {
		m += c.LeveledEffect(name)
	}
	return m
}

// ResolveProperty returns base scaled by (1 + Σ leveled effects of skills).
//
// Postcondition: when skills is empty, or base is text, base is returned unchanged.
func ResolveProperty(base catalog.Value, skills []string, c Leveler) catalog.Value {
	if len(skills) == 0 {
		return base
	}
	f, ok := base.Float()
	if !ok {
		return base
	}
	return catalog.Number(f * (1 + Modifier(skills, c)))
}

// ResolveEntry resolves every property of e for c.
//
// Postcondition: the returned map is freshly allocated; e is not modified.
func ResolveEntry(e *catalog.Entry, c Leveler) map[string]catalog.Value {
	out := make(map[string]catalog.Value, len(e.Properties))
	for prop, base := range e.Properties {
		out[prop] = ResolveProperty(base, e.Skills[prop], c)
	}
	return out
}
