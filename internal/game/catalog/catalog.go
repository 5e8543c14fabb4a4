package catalog

import (
	"fmt"
)

// Member is a compact catalog listing row.
type Member struct {
	Name string
	CPU  float64
	PG   float64
}

// Catalog holds every entry of one Kind, indexed by name and kept in load order.
type Catalog struct {
	kind       Kind
	entries    map[string]*Entry
	order      []string
	categories []string
	members    map[string][]string
}

// NewCatalog builds a Catalog of the given kind.
//
// Precondition: every entry is non-nil.
// Postcondition: returns an error if any entry is invalid, of another kind, or
// duplicates a name already registered.
func NewCatalog(kind Kind, entries ...*Entry) (*Catalog, error) {
	c := &Catalog{
		kind:    kind,
		entries: make(map[string]*Entry, len(entries)),
		members: make(map[string][]string),
	}
	for _, e := range entries {
		if err := c.register(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) register(e *Entry) error {
	if e.Kind != c.kind {
		return fmt.Errorf("catalog: %s catalog cannot hold %s %q", c.kind, e.Kind, e.Name)
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := c.entries[e.Name]; exists {
		return fmt.Errorf("catalog: %s %q already registered", c.kind, e.Name)
	}
	c.entries[e.Name] = e
	c.order = append(c.order, e.Name)
	if _, seen := c.members[e.Category]; !seen {
		c.categories = append(c.categories, e.Category)
	}
	c.members[e.Category] = append(c.members[e.Category], e.Name)
	return nil
}

// Kind returns the kind of entry this catalog holds.
func (c *Catalog) Kind() Kind {
	return c.kind
}

// Lookup returns the named entry.
//
// Postcondition: returns *ItemNotFoundError when name is not registered.
func (c *Catalog) Lookup(name string) (*Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, &ItemNotFoundError{Kind: c.kind, Name: name}
	}
	return e, nil
}

// Names returns every entry name in load order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the category names in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// MembersOf lists the entries of category in load order. Missing cpu or pg
// properties are reported as 0.
func (c *Catalog) MembersOf(category string) []Member {
	names := c.members[category]
	out := make([]Member, 0, len(names))
	for _, name := range names {
		e := c.entries[name]
		cpu, _ := e.Number(PropCPU)
		pg, _ := e.Number(PropPG)
		out = append(out, Member{Name: name, CPU: cpu, PG: pg})
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns every entry in load order.
func (c *Catalog) All() []*Entry {
	out := make([]*Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}
