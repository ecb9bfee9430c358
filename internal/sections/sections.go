// Package sections holds the declarative per-section configuration that
// drives analysis and edit planning. Every section of the action-plan
// template is described by one Descriptor; behavior differences between
// sections live here as data, not as per-section code.
package sections

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/calebwren/redline/internal/match"
)

// Layout identifies how a section's content is arranged and therefore
// which planning rules apply to it.
type Layout string

const (
	// LayoutSingle is one box of dot points in one cell.
	LayoutSingle Layout = "single"
	// LayoutDual is left and right boxes in adjacent cells, analyzed
	// independently.
	LayoutDual Layout = "dual"
	// LayoutTwoPart is a dual section whose right box holds replacement
	// text for struck-through items on the left.
	LayoutTwoPart Layout = "two-part"
	// LayoutGoals is the handwritten-goals section: numbered slots in a
	// goals column paired with an achieved column.
	LayoutGoals Layout = "goals"
	// LayoutBlank is a pair of blank boxes; an untouched row is removed
	// entirely.
	LayoutBlank Layout = "blank"
)

// Region is a normalized crop box on a source page, coordinates in the
// range 0..1 relative to page dimensions.
type Region struct {
	Page   int     `yaml:"page"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Descriptor is the immutable configuration for one section. Created at
// registry load; read-only afterwards.
type Descriptor struct {
	Name        string              `yaml:"name"`
	Title       string              `yaml:"title"`
	Layout      Layout              `yaml:"layout"`
	Keywords    []string            `yaml:"keywords"`
	RowKeywords []string            `yaml:"row_keywords"`
	Threshold   float64             `yaml:"threshold"`
	Table       match.TableCriteria `yaml:"table"`
	LeftColumn  int                 `yaml:"left_column"`
	RightColumn int                 `yaml:"right_column"`
	Region      Region              `yaml:"region"`
	Prompt      string              `yaml:"prompt"`
}

// SimilarityThreshold returns the section's configured threshold, falling
// back to the matcher default.
func (d Descriptor) SimilarityThreshold() float64 {
	if d.Threshold > 0 {
		return d.Threshold
	}
	return match.DefaultThreshold
}

// Registry is an ordered collection of section descriptors.
type Registry struct {
	ordered []Descriptor
	byName  map[string]int
}

// NewRegistry builds a registry from descriptors, preserving order.
// Duplicate names are rejected.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("section descriptor without a name (title %q)", d.Title)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate section name %q", d.Name)
		}
		if d.Layout == "" {
			d.Layout = LayoutSingle
		}
		r.byName[d.Name] = len(r.ordered)
		r.ordered = append(r.ordered, d)
	}
	return r, nil
}

// Default returns the built-in registry for the action-plan template.
func Default() *Registry {
	r, err := NewRegistry(defaultDescriptors())
	if err != nil {
		// The built-in table is validated by tests; a bad entry is a
		// programming error.
		panic(err)
	}
	return r
}

// Load returns the default registry overlaid with descriptors from a YAML
// file. Descriptors sharing a name with a built-in replace it in place;
// new names append in file order.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read section overlay: %w", err)
	}
	var overlay struct {
		Sections []Descriptor `yaml:"sections"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("decode section overlay: %w", err)
	}

	merged := defaultDescriptors()
	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[d.Name] = i
	}
	for _, d := range overlay.Sections {
		if i, ok := index[d.Name]; ok {
			merged[i] = d
			continue
		}
		index[d.Name] = len(merged)
		merged = append(merged, d)
	}
	return NewRegistry(merged)
}

// All returns descriptors in document order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Find returns the descriptor with the given name.
func (r *Registry) Find(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.ordered[i], true
}

// Len reports the number of registered sections.
func (r *Registry) Len() int {
	return len(r.ordered)
}
