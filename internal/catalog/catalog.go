// Package catalog is the read-only vehicle dataset: variants, their options and camera presets.
// The data ships embedded (variants.yaml) and can be replaced by a file at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"configurator/internal/paint"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// ID identifies a variant ("911", "taycan", "cayenne").
type ID string

//go:embed variants.yaml
var embeddedVariants []byte

// ColorOption is one paint choice.
type ColorOption struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Hex      string `yaml:"hex"`
	Metallic bool   `yaml:"metallic"`
}

// WheelOption is one wheel choice; Price is the delta over the base price.
type WheelOption struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Price int64  `yaml:"price"`
}

// InteriorOption is one interior trim; Hex is the swatch used to recolor cabin surfaces.
type InteriorOption struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Hex   string `yaml:"hex"`
	Price int64  `yaml:"price"`
}

// Package is one multi-select option package.
type Package struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
}

// Stat is one performance figure; Bar is 0–100 relative to the fleet maximum.
type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Bar   int    `yaml:"bar"`
}

// Preset is an authored camera framing. A zero FOV means "not authored".
type Preset struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FOV      float32    `yaml:"fov"`
}

// Defined reports whether the preset was authored.
func (p Preset) Defined() bool {
	return p.FOV > 0
}

// Presets are the named framings of a variant.
type Presets struct {
	Exterior  Preset `yaml:"exterior"`
	Selection Preset `yaml:"selection"`
	Wheels    Preset `yaml:"wheels"`
}

// Variant is one catalog record.
type Variant struct {
	ID           ID               `yaml:"id"`
	Name         string           `yaml:"name"`
	FullName     string           `yaml:"full_name"`
	Tagline      string           `yaml:"tagline"`
	BasePrice    int64            `yaml:"base_price"`
	Asset        string           `yaml:"asset"`
	Scale        float32          `yaml:"scale"`
	DefaultColor string           `yaml:"default_color"`
	Colors       []ColorOption    `yaml:"colors"`
	Wheels       []WheelOption    `yaml:"wheels"`
	Interiors    []InteriorOption `yaml:"interiors"`
	Packages     []Package        `yaml:"packages"`
	Performance  []Stat           `yaml:"performance"`
	Presets      Presets          `yaml:"presets"`
}

type document struct {
	Variants []Variant `yaml:"variants"`
}

// Catalog holds the variants in display order.
type Catalog struct {
	variants []Variant
	byID     map[ID]int
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) {
	return Parse(embeddedVariants)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(doc.Variants) == 0 {
		return nil, fmt.Errorf("catalog: no variants")
	}
	c := &Catalog{variants: doc.Variants, byID: make(map[ID]int, len(doc.Variants))}
	for i := range c.variants {
		v := &c.variants[i]
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("catalog: variant %q: %w", v.ID, err)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate variant %q", v.ID)
		}
		c.byID[v.ID] = i
	}
	return c, nil
}

func (v *Variant) validate() error {
	if v.ID == "" {
		return fmt.Errorf("missing id")
	}
	if v.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", v.Scale)
	}
	if _, ok := paint.ParseHex(v.DefaultColor); !ok {
		return fmt.Errorf("default_color %q is not a hex color", v.DefaultColor)
	}
	for _, c := range v.Colors {
		if _, ok := paint.ParseHex(c.Hex); !ok {
			return fmt.Errorf("color %q: bad hex %q", c.Key, c.Hex)
		}
	}
	for _, in := range v.Interiors {
		if _, ok := paint.ParseHex(in.Hex); !ok {
			return fmt.Errorf("interior %q: bad hex %q", in.Key, in.Hex)
		}
	}
	if len(v.Wheels) == 0 {
		return fmt.Errorf("no wheel options")
	}
	if len(v.Interiors) == 0 {
		return fmt.Errorf("no interior options")
	}
	return nil
}

// Len returns the number of variants.
func (c *Catalog) Len() int {
	return len(c.variants)
}

// IDs returns variant identifiers in display order.
func (c *Catalog) IDs() []ID {
	out := make([]ID, len(c.variants))
	for i, v := range c.variants {
		out[i] = v.ID
	}
	return out
}

// Variant returns a deep copy of the variant so callers cannot mutate the catalog.
func (c *Catalog) Variant(id ID) (Variant, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Variant{}, false
	}
	var out Variant
	if err := copier.CopyWithOption(&out, &c.variants[i], copier.Option{DeepCopy: true}); err != nil {
		return c.variants[i], true
	}
	return out, true
}

// Has reports whether id names a variant.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.byID[id]
	return ok
}
