package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/markwingerd/dft-old/internal/game/skill"
)

// Catalog file names expected by LoadDir.
const (
	SkillsFile    = "skills.yaml"
	ModulesFile   = "modules.yaml"
	WeaponsFile   = "weapons.yaml"
	DropsuitsFile = "dropsuits.yaml"
)

type entryDoc struct {
	Name       string              `yaml:"name"`
	Properties map[string]Value    `yaml:"properties"`
	Skills     map[string][]string `yaml:"skills"`
}

type categoryDoc struct {
	Name  string     `yaml:"name"`
	Items []entryDoc `yaml:"items"`
}

type catalogDoc struct {
	Categories []categoryDoc `yaml:"categories"`
}

// ParseCatalog decodes a YAML catalog document of the given kind. The document
// groups entries under named categories:
//
//	categories:
//	  - name: shields
//	    items:
//	      - name: Complex Shield Extender
//	        properties: {slot_type: low_slot, cpu: 40, pg: 10, shield_hp: 66}
//	        skills: {cpu: [Shield Upgrades]}
func ParseCatalog(kind Kind, data []byte) (*Catalog, error) {
	var doc catalogDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s catalog: %w", kind, err)
	}
	var entries []*Entry
	for _, cat := range doc.Categories {
		for _, item := range cat.Items {
			props := item.Properties
			if props == nil {
				props = make(map[string]Value)
			}
			skills := item.Skills
			if skills == nil {
				skills = make(map[string][]string)
			}
			entries = append(entries, &Entry{
				Name:       item.Name,
				Category:   cat.Name,
				Kind:       kind,
				Properties: props,
				Skills:     skills,
			})
		}
	}
	return NewCatalog(kind, entries...)
}

// LoadCatalog reads and parses a single catalog file.
//
// Precondition: path is a readable YAML file.
// Postcondition: returns a valid Catalog or a non-nil error.
func LoadCatalog(kind Kind, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: cannot read file %q: %w", path, err)
	}
	c, err := ParseCatalog(kind, data)
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: %q: %w", path, err)
	}
	return c, nil
}

// Library bundles the skill catalog with the three item catalogs.
type Library struct {
	Skills    *skill.Catalog
	Modules   *Catalog
	Weapons   *Catalog
	Dropsuits *Catalog
}

// ForKind returns the item catalog holding entries of kind, or nil.
func (l *Library) ForKind(kind Kind) *Catalog {
	switch kind {
	case KindModule:
		return l.Modules
	case KindWeapon:
		return l.Weapons
	case KindDropsuit:
		return l.Dropsuits
	}
	return nil
}

// Validate cross-checks the catalogs: every skill annotation must name a skill
// in the skill catalog.
//
// Postcondition: returns nil iff every reference resolves.
func (l *Library) Validate() error {
	var errs []error
	for _, c := range []*Catalog{l.Modules, l.Weapons, l.Dropsuits} {
		if c == nil {
			continue
		}
		for _, e := range c.All() {
			for prop, names := range e.Skills {
				for _, name := range names {
					if !l.Skills.Has(name) {
						errs = append(errs, fmt.Errorf("%s %q property %q: %w", e.Kind, e.Name, prop, &skill.UnknownSkillError{Name: name}))
					}
				}
			}
		}
	}
	return errors.Join(errs...)
}

// LoadDir loads skills.yaml, modules.yaml, weapons.yaml and dropsuits.yaml
// from dir concurrently and validates the resulting Library.
//
// Precondition: dir is a readable directory containing all four files.
// Postcondition: returns a validated Library or the first encountered error.
func LoadDir(ctx context.Context, dir string) (*Library, error) {
	lib := &Library{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		skills, err := skill.LoadCatalog(filepath.Join(dir, SkillsFile))
		if err != nil {
			return err
		}
		lib.Skills = skills
		return nil
	})
	load := func(kind Kind, file string, dst **Catalog) {
		g.Go(func() error {
			c, err := LoadCatalog(kind, filepath.Join(dir, file))
			if err != nil {
				return err
			}
			*dst = c
			return nil
		})
	}
	load(KindModule, ModulesFile, &lib.Modules)
	load(KindWeapon, WeaponsFile, &lib.Weapons)
	load(KindDropsuit, DropsuitsFile, &lib.Dropsuits)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading catalog dir %q: %w", dir, err)
	}
	if err := lib.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog dir %q: %w", dir, err)
	}
	return lib, nil
}
