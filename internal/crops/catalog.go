package crops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// ErrUnknownCrop reports a lookup for a crop that is not in the catalog.
var ErrUnknownCrop = errors.New("unknown crop")

// Catalog is the immutable set of crop definitions for a session.
// It is built once before the first tick and never reloaded.
type Catalog struct {
	defs  []*Definition
	index map[ID]*Definition
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Crops []Definition `yaml:"crops"`
}

// NewCatalog validates the definitions and builds a catalog in the given order.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]*Definition, 0, len(defs)),
		index: make(map[ID]*Definition, len(defs)),
	}
	for i := range defs {
		d := defs[i]
		if len(d.GrowthCurve.Points) == 0 {
			d.GrowthCurve = LinearCurve()
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, d.ID)
		}
		c.defs = append(c.defs, &d)
		c.index[d.ID] = &d
	}
	return c, nil
}

// Load reads a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode catalog: empty document")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Crops) == 0 {
		return nil, fmt.Errorf("%w: catalog has no crops", ErrInvalidDefinition)
	}
	return NewCatalog(f.Crops...)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Builtin returns the default catalog shipped with the game.
func Builtin() *Catalog {
	c, err := NewCatalog(
		Definition{
			ID:             "wheat",
			Name:           "Wheat",
			Description:    "Hardy grain. Prefers drier soil and takes its time.",
			TargetMoisture: 0.35,
			DaysToMature:   20,
			HeatTolerance:  0.7,
		},
		Definition{
			ID:             "tomato",
			Name:           "Tomato",
			Description:    "Thirsty and quick. Shrivels fast when the soil dries out.",
			TargetMoisture: 0.55,
			DaysToMature:   14,
			HeatTolerance:  0.6,
		},
	)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}

// Len returns the number of crops.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// All returns the definitions in catalog order.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Contains reports whether def is the catalog's own definition for its ID.
// A definition from another catalog with the same ID does not count.
func (c *Catalog) Contains(def *Definition) bool {
	if c == nil || def == nil {
		return false
	}
	return c.index[def.ID] == def
}

// Lookup finds a crop by ID, or by ID or display name ignoring case.
// Misses return ErrUnknownCrop with the closest known ID when one is near.
func (c *Catalog) Lookup(key string) (*Definition, error) {
	if d, ok := c.index[ID(key)]; ok {
		return d, nil
	}
	want := strings.ToLower(strings.TrimSpace(key))
	for _, d := range c.defs {
		if strings.ToLower(string(d.ID)) == want || strings.ToLower(d.Name) == want {
			return d, nil
		}
	}
	if s := c.suggest(want); s != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownCrop, key, s)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCrop, key)
}

// suggest returns the ID whose ID or name is within a small edit distance.
func (c *Catalog) suggest(key string) ID {
	if key == "" {
		return ""
	}
	best := ID("")
	bestDist := len(key)/3 + 2
	for _, d := range c.defs {
		for _, cand := range []string{strings.ToLower(string(d.ID)), strings.ToLower(d.Name)} {
			if cand == "" {
				continue
			}
			if dist := levenshtein.ComputeDistance(key, cand); dist < bestDist {
				best, bestDist = d.ID, dist
			}
		}
	}
	return best
}
