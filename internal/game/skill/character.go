package skill

import "sort"

// Character is a named set of trained skill levels validated against a Catalog.
//
// Invariant: every key in levels names a skill in catalog, and every value is
// in [MinLevel, MaxLevel].
type Character struct {
	Name    string
	catalog *Catalog
	levels  map[string]int
}

// NewCharacter returns an untrained character bound to catalog.
//
// Precondition: catalog must be non-nil.
func NewCharacter(name string, catalog *Catalog) *Character {
	return &Character{
		Name:    name,
		catalog: catalog,
		levels:  make(map[string]int),
	}
}

// SetSkill trains the named skill to level, clamped to [MinLevel, MaxLevel].
//
// Postcondition: returns *UnknownSkillError and leaves the character unchanged
// when name is not in the catalog.
func (c *Character) SetSkill(name string, level int) error {
	if !c.catalog.Has(name) {
		return &UnknownSkillError{Name: name}
	}
	c.levels[name] = clampLevel(level)
	return nil
}

// SkillLevel returns the trained level of name, or 0 when it was never set.
func (c *Character) SkillLevel(name string) int {
	return c.levels[name]
}

// LeveledEffect returns level * per-level effect for name; 0 for unknown skills.
func (c *Character) LeveledEffect(name string) float64 {
	s, ok := c.catalog.Skill(name)
	if !ok {
		return 0
	}
	return float64(c.levels[name]) * s.Effect
}

// Levels returns a copy of the trained skill levels.
func (c *Character) Levels() map[string]int {
	out := make(map[string]int, len(c.levels))
	for k, v := range c.levels {
		out[k] = v
	}
	return out
}

// Catalog returns the skill catalog the character validates against.
func (c *Character) Catalog() *Catalog {
	return c.catalog
}

// MissingPrerequisites returns the prerequisites of name that this character
// has not trained to the required level, sorted by skill name.
//
// Postcondition: returns *UnknownSkillError when name is not in the catalog.
func (c *Character) MissingPrerequisites(name string) ([]Prerequisite, error) {
	s, ok := c.catalog.Skill(name)
	if !ok {
		return nil, &UnknownSkillError{Name: name}
	}
	var missing []Prerequisite
	for _, p := range s.Prerequisites {
		if c.levels[p.Skill] < p.Level {
			missing = append(missing, p)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Skill < missing[j].Skill })
	return missing, nil
}

func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
