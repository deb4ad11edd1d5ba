package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// MaxItems is the largest item count the layouts guarantee to place without overlap.
const MaxItems = 6

// MaxSubItems keeps a sub-item row readable inside the narrowest canvas.
const MaxSubItems = 8

var ErrInvalidCatalog = errors.New("invalid catalog")
var ErrUnknownCatalog = errors.New("unknown catalog")

// Item is one top-level node in a section (a skill group, an achievement).
// Its ordinal is its position in Catalog.Items.
type Item struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Color    string   `yaml:"color" json:"color"`
	SubItems []string `yaml:"sub_items" json:"sub_items"`
}

// Tint returns the item color blended toward transparent black, as an #rrggbbaa token.
func (it Item) Tint(alpha float64) string {
	c, err := colorful.Hex(it.Color)
	if err != nil {
		return it.Color
	}
	a := int(clamp01(alpha)*255 + 0.5)
	return fmt.Sprintf("%s%02x", c.Hex(), a)
}

type Catalog struct {
	Name   string `yaml:"name" json:"name"`
	Layout string `yaml:"layout" json:"layout"`
	// PauseOrbitOnHover freezes the radial rotation while an item is hovered.
	PauseOrbitOnHover bool   `yaml:"pause_orbit_on_hover" json:"pause_orbit_on_hover"`
	Items             []Item `yaml:"items" json:"items"`
}

// IDs returns item identifiers in ordinal order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ID
	}
	return ids
}

// Clone returns a deep copy so callers can never mutate a shared catalog.
func (c Catalog) Clone() Catalog {
	out := c
	out.Items = make([]Item, len(c.Items))
	for i, it := range c.Items {
		it.SubItems = slices.Clone(it.SubItems)
		out.Items[i] = it
	}
	return out
}

func (c Catalog) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCatalog)
	}
	if len(c.Items) > MaxItems {
		return fmt.Errorf("%w: %s has %d items, max %d", ErrInvalidCatalog, c.Name, len(c.Items), MaxItems)
	}
	seen := make(map[string]bool, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: %s item %d has no id", ErrInvalidCatalog, c.Name, i)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: %s duplicate id %q", ErrInvalidCatalog, c.Name, it.ID)
		}
		seen[it.ID] = true
		if len(it.SubItems) > MaxSubItems {
			return fmt.Errorf("%w: %s item %q has %d sub-items, max %d", ErrInvalidCatalog, c.Name, it.ID, len(it.SubItems), MaxSubItems)
		}
		if _, err := colorful.Hex(it.Color); err != nil {
			return fmt.Errorf("%w: %s item %q color %q: %v", ErrInvalidCatalog, c.Name, it.ID, it.Color, err)
		}
	}
	return nil
}

// Set is a named collection of catalogs, looked up when a section is mounted.
type Set struct {
	byName map[string]Catalog
	order  []string
}

func NewSet(cats ...Catalog) (*Set, error) {
	s := &Set{byName: make(map[string]Catalog, len(cats))}
	for _, c := range cats {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.byName[c.Name]; !ok {
			s.order = append(s.order, c.Name)
		}
		s.byName[c.Name] = c.Clone()
	}
	return s, nil
}

func (s *Set) Get(name string) (Catalog, error) {
	c, ok := s.byName[name]
	if !ok {
		return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
	}
	return c.Clone(), nil
}

func (s *Set) Names() []string { return slices.Clone(s.order) }

type file struct {
	Catalogs []Catalog `yaml:"catalogs"`
}

// Load reads catalogs from a YAML file and merges them over the built-ins.
// Catalogs in the file replace built-ins with the same name.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return NewSet(append(Defaults(), f.Catalogs...)...)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
