// Package catalog holds the immutable signal tables the classification stages
// read: known entities, regional markers, keyword sets, theme and audience
// tables, and subscription programs.
package catalog

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/model"
	"github.com/sells-group/ad-intel/internal/textmatch"
)

// Entity is one known brand, merchant or platform.
type Entity struct {
	Name     string           `yaml:"name" json:"name"`
	Aliases  []string         `yaml:"aliases" json:"aliases"`
	Type     model.EntityType `yaml:"type" json:"type"`
	Priority int              `yaml:"priority" json:"priority"`
}

// Alias is one normalized surface form pointing at an entity.
type Alias struct {
	Text      string
	Original  string
	Entity    int
	Canonical bool
}

// Entities is an immutable, indexed entity catalog.
type Entities struct {
	entities []Entity
	aliases  []Alias
	lookup   map[string]int
}

// NewEntities validates and indexes entities. When an entity lists aliases its
// canonical name is added to the alias set; an entity with no aliases can be
// looked up by name but never matches text.
func NewEntities(entities []Entity) (*Entities, error) {
	c := &Entities{
		entities: make([]Entity, 0, len(entities)),
		lookup:   make(map[string]int),
	}
	for _, e := range entities {
		if e.Name == "" {
			return nil, eris.New("catalog: entity with empty name")
		}
		if !e.Type.Valid() {
			return nil, eris.Errorf("catalog: entity %q has unknown type %q", e.Name, e.Type)
		}
		idx := len(c.entities)
		e.Aliases = append([]string(nil), e.Aliases...)
		c.entities = append(c.entities, e)

		nameKey := textmatch.Normalize(e.Name)
		if _, dup := c.lookup[nameKey]; !dup {
			c.lookup[nameKey] = idx
		}
		if len(e.Aliases) == 0 {
			continue
		}

		seen := map[string]bool{}
		add := func(raw string, canonical bool) {
			key := textmatch.Normalize(raw)
			if key == "" || seen[key] {
				return
			}
			seen[key] = true
			c.aliases = append(c.aliases, Alias{Text: key, Original: raw, Entity: idx, Canonical: canonical})
			if _, dup := c.lookup[key]; !dup {
				c.lookup[key] = idx
			}
		}
		add(e.Name, true)
		for _, a := range e.Aliases {
			add(a, false)
		}
	}
	return c, nil
}

// Len returns the number of entities.
func (c *Entities) Len() int { return len(c.entities) }

// All returns a copy of every entity.
func (c *Entities) All() []Entity {
	out := make([]Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

// Get returns the entity at index i.
func (c *Entities) Get(i int) Entity { return c.entities[i] }

// Aliases returns the normalized alias index.
func (c *Entities) Aliases() []Alias {
	out := make([]Alias, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// Lookup finds an entity by canonical name or alias, case-insensitively.
func (c *Entities) Lookup(name string) (Entity, bool) {
	idx, ok := c.lookup[textmatch.Normalize(name)]
	if !ok {
		return Entity{}, false
	}
	return c.entities[idx], true
}

// Canonicalize returns the canonical name for name, or name unchanged when it
// is not in the catalog.
func (c *Entities) Canonicalize(name string) string {
	if e, ok := c.Lookup(name); ok {
		return e.Name
	}
	return name
}

// OfType returns the canonical names of entities with the given type.
func (c *Entities) OfType(t model.EntityType) []string {
	var out []string
	for _, e := range c.entities {
		if e.Type == t {
			out = append(out, e.Name)
		}
	}
	return out
}
