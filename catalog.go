package grove

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelSpec describes one loadable model.
type ModelSpec struct {
	Key  string
	Name string
	// Path is the asset location handed to the Loader.
	Path string
	// Scale is the model's native-to-world factor.
	Scale float64
	// GroundOffset is the Y position that rests the model on a tile.
	GroundOffset float64
}

// Presentation is how one emotion is drawn.
type Presentation struct {
	ModelKey string
	Scale    float64
	// Tint multiplies the model's materials when set.
	Tint *Color
}

// Catalog is the immutable model and presentation table. Build one with
// DefaultCatalog or LoadCatalog; the accessors never expose the maps.
type Catalog struct {
	models        map[string]ModelSpec
	presentations map[Emotion]Presentation
	decorations   []string
}

// Model returns the spec for key.
func (c *Catalog) Model(key string) (ModelSpec, bool) {
	m, ok := c.models[key]
	return m, ok
}

// Presentation returns the entry for e, falling back to neutral for labels
// outside the closed set.
func (c *Catalog) Presentation(e Emotion) Presentation {
	if p, ok := c.presentations[e]; ok {
		return p
	}
	return c.presentations[EmotionNeutral]
}

// Decorations returns the per-corner decoration model keys.
func (c *Catalog) Decorations() []string {
	return append([]string(nil), c.decorations...)
}

// ModelKeys returns every model key, sorted.
func (c *Catalog) ModelKeys() []string {
	keys := make([]string, 0, len(c.models))
	for k := range c.models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequiredKeys returns the sorted, de-duplicated model keys referenced by
// presentations and decorations. Composition waits for all of them.
func (c *Catalog) RequiredKeys() []string {
	seen := make(map[string]bool)
	for _, p := range c.presentations {
		seen[p.ModelKey] = true
	}
	for _, d := range c.decorations {
		seen[d] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every emotion has a presentation and that every
// referenced model key exists.
func (c *Catalog) Validate() error {
	for _, e := range Emotions {
		p, ok := c.presentations[e]
		if !ok {
			return fmt.Errorf("catalog: no presentation for %q", e)
		}
		if _, ok := c.models[p.ModelKey]; !ok {
			return fmt.Errorf("catalog: presentation %q: %w %q", e, ErrUnknownModel, p.ModelKey)
		}
		if p.Scale <= 0 {
			return fmt.Errorf("catalog: presentation %q: scale must be positive", e)
		}
	}
	for _, d := range c.decorations {
		if _, ok := c.models[d]; !ok {
			return fmt.Errorf("catalog: decoration: %w %q", ErrUnknownModel, d)
		}
	}
	return nil
}

// --- File format ---

type catalogFile struct {
	Models        map[string]modelEntry        `yaml:"models"`
	Presentations map[string]presentationEntry `yaml:"presentations"`
	Decorations   []string                     `yaml:"decorations"`
}

type modelEntry struct {
	Name         string  `yaml:"name"`
	Path         string  `yaml:"path"`
	Scale        float64 `yaml:"scale"`
	GroundOffset float64 `yaml:"groundOffset"`
}

type presentationEntry struct {
	Model string  `yaml:"model"`
	Scale float64 `yaml:"scale"`
	Tint  string  `yaml:"tint,omitempty"`
}

// ParseCatalog decodes a YAML catalog and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c := &Catalog{
		models:        make(map[string]ModelSpec, len(f.Models)),
		presentations: make(map[Emotion]Presentation, len(f.Presentations)),
		decorations:   append([]string(nil), f.Decorations...),
	}
	for key, m := range f.Models {
		scale := m.Scale
		if scale == 0 {
			scale = 1
		}
		c.models[key] = ModelSpec{Key: key, Name: m.Name, Path: m.Path, Scale: scale, GroundOffset: m.GroundOffset}
	}
	for label, p := range f.Presentations {
		e := Emotion(label)
		if !e.Valid() {
			return nil, fmt.Errorf("parsing catalog: unknown emotion %q", label)
		}
		entry := Presentation{ModelKey: p.Model, Scale: p.Scale}
		if p.Tint != "" {
			tint, err := ParseColor(p.Tint)
			if err != nil {
				return nil, fmt.Errorf("parsing catalog: presentation %q: %w", label, err)
			}
			entry.Tint = &tint
		}
		c.presentations[e] = entry
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog reads and parses a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// MarshalYAML encodes the catalog in the file format read by ParseCatalog.
func (c *Catalog) MarshalYAML() (any, error) {
	f := catalogFile{
		Models:        make(map[string]modelEntry, len(c.models)),
		Presentations: make(map[string]presentationEntry, len(c.presentations)),
		Decorations:   c.Decorations(),
	}
	for k, m := range c.models {
		f.Models[k] = modelEntry{Name: m.Name, Path: m.Path, Scale: m.Scale, GroundOffset: m.GroundOffset}
	}
	for e, p := range c.presentations {
		entry := presentationEntry{Model: p.ModelKey, Scale: p.Scale}
		if p.Tint != nil {
			entry.Tint = p.Tint.Hex()
		}
		f.Presentations[string(e)] = entry
	}
	return f, nil
}

// --- Built-in tables ---

// DefaultCatalog returns the built-in model and presentation tables.
func DefaultCatalog() *Catalog {
	sadnessTint := MustColor("#964B00")
	models := []ModelSpec{
		{Key: "pine2", Name: "Pine Tree", Path: "model/pine2.glb", Scale: 0.015},
		{Key: "oak_tree", Name: "Oak Tree", Path: "model/oak_tree.glb", Scale: 0.4},
		{Key: "cypress", Name: "Cypress Tree", Path: "model/cypress.glb", Scale: 0.5},
		{Key: "birch_tree", Name: "Birch Tree", Path: "model/birch_tree.glb", Scale: 0.2},
		{Key: "cactus", Name: "Cactus", Path: "model/cactus.glb", Scale: 3, GroundOffset: 1.5},
		{Key: "maple_tree", Name: "Maple Tree", Path: "model/twisted_tree.glb", Scale: 0.5},
		{Key: "tree", Name: "Evergreen Tree", Path: "model/tree.glb", Scale: 0.7},
		{Key: "cherry", Name: "Cherry Blossom", Path: "model/cherry.glb", Scale: 10},
		{Key: "poplar", Name: "Poplar", Path: "model/poplar.glb", Scale: 0.8, GroundOffset: -1},
		{Key: "dead", Name: "Dead Tree", Path: "model/dead_tree.glb", Scale: 1},
		{Key: "orange_tree", Name: "Orange Tree", Path: "model/orange_tree.glb", Scale: 1},
		{Key: "pebble1", Name: "Pebble 1", Path: "model/pebble.glb", Scale: 0.7, GroundOffset: -0.1},
		{Key: "pebble2", Name: "Pebble 2", Path: "model/pebble2.glb", Scale: 1.3, GroundOffset: -0.05},
		{Key: "grass1", Name: "Grass 1", Path: "model/grass1.glb", Scale: 0.8},
		{Key: "grass2", Name: "Grass 2", Path: "model/grass2.glb", Scale: 1.6},
	}
	c := &Catalog{
		models: make(map[string]ModelSpec, len(models)),
		presentations: map[Emotion]Presentation{
			EmotionJoy:          {ModelKey: "cherry", Scale: 1.2},
			EmotionTrust:        {ModelKey: "oak_tree", Scale: 2},
			EmotionFear:         {ModelKey: "cypress", Scale: 0.7},
			EmotionSurprise:     {ModelKey: "poplar", Scale: 0.5},
			EmotionSadness:      {ModelKey: "dead", Scale: 0.4, Tint: &sadnessTint},
			EmotionDisgust:      {ModelKey: "cactus", Scale: 2},
			EmotionAnger:        {ModelKey: "maple_tree", Scale: 0.6},
			EmotionAnticipation: {ModelKey: "orange_tree", Scale: 0.35},
			EmotionExcitement:   {ModelKey: "tree", Scale: 0.7},
			EmotionNeutral:      {ModelKey: "pine2", Scale: 0.7},
		},
		decorations: []string{"grass2", "grass1", "pebble1", "grass2"},
	}
	for _, m := range models {
		c.models[m.Key] = m
	}
	return c
}
