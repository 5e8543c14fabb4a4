// Package skill defines the trainable skills that modify dropsuit and item
// properties, and the characters that train them.
package skill

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MinLevel and MaxLevel bound every trained skill level.
const (
	MinLevel = 0
	MaxLevel = 5
)

// ErrUnknownSkill is matched by every UnknownSkillError via errors.Is.
var ErrUnknownSkill = errors.New("unknown skill")

// UnknownSkillError reports a skill name that is not in the skill catalog.
type UnknownSkillError struct {
	Name string
}

func (e *UnknownSkillError) Error() string {
	return fmt.Sprintf("unknown skill %q", e.Name)
}

// Unwrap returns ErrUnknownSkill.
func (e *UnknownSkillError) Unwrap() error { return ErrUnknownSkill }

// Prerequisite names a skill that must be trained to at least Level.
type Prerequisite struct {
	Skill string `yaml:"skill"`
	Level int    `yaml:"level"`
}

// Skill is the static definition of a trainable skill loaded from YAML.
type Skill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	// Effect is the signed fractional bonus granted per trained level.
	Effect float64 `yaml:"effect"`
	// Multiplier scales the skill point cost of every level.
	Multiplier    float64        `yaml:"multiplier"`
	Prerequisites []Prerequisite `yaml:"prerequisites"`
}

// Validate checks that the Skill satisfies its invariants.
//
// Precondition: s is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (s *Skill) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if s.Multiplier < 0 {
		errs = append(errs, errors.New("Multiplier must be >= 0"))
	}
	for _, p := range s.Prerequisites {
		if p.Skill == "" {
			errs = append(errs, errors.New("prerequisite Skill must not be empty"))
		}
		if p.Level < MinLevel || p.Level > MaxLevel {
			errs = append(errs, fmt.Errorf("prerequisite %q level must be %d-%d, got %d", p.Skill, MinLevel, MaxLevel, p.Level))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q validation failed: %v", s.Name, errs)
	}
	return nil
}

// Catalog is the read-only set of known skills, kept in load order.
type Catalog struct {
	skills map[string]*Skill
	order  []string
}

// NewCatalog builds a Catalog from the given skills.
//
// Precondition: every element of skills is non-nil.
// Postcondition: returns an error if any skill is invalid, duplicated, or has a
// prerequisite naming a skill that is not part of the catalog.
func NewCatalog(skills ...*Skill) (*Catalog, error) {
	c := &Catalog{skills: make(map[string]*Skill, len(skills))}
	for _, s := range skills {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.skills[s.Name]; exists {
			return nil, fmt.Errorf("skill: NewCatalog: skill %q already registered", s.Name)
		}
		c.skills[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	for _, s := range skills {
		for _, p := range s.Prerequisites {
			if _, ok := c.skills[p.Skill]; !ok {
				return nil, fmt.Errorf("skill: NewCatalog: %q requires %w", s.Name, &UnknownSkillError{Name: p.Skill})
			}
		}
	}
	return c, nil
}

// Skill returns the named skill and whether it exists.
func (c *Catalog) Skill(name string) (*Skill, bool) {
	s, ok := c.skills[name]
	return s, ok
}

// Has reports whether name is a known skill.
func (c *Catalog) Has(name string) bool {
	_, ok := c.skills[name]
	return ok
}

// Names returns every skill name in load order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the distinct skill categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range c.order {
		cat := c.skills[name].Category
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// Len returns the number of skills in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

type skillFile struct {
	Skills []*Skill `yaml:"skills"`
}

// LoadCatalog reads a YAML document with a top-level "skills" list and builds
// a Catalog from it.
//
// Precondition: path is a readable YAML file.
// Postcondition: returns a valid Catalog or a non-nil error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: cannot read file %q: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a Catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f skillFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing skills: %w", err)
	}
	return NewCatalog(f.Skills...)
}
