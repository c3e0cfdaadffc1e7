// Package style holds named text styles used when measuring and drawing
// text carried by layout nodes.
//
// Every [Registry] contains a "_default" entry so that nodes without an
// explicit style always resolve:
//
//	reg := style.NewRegistry()
//	_ = reg.Set("title", style.Style{Font: "Go Bold", Size: 32, Color: "#222"})
//	s, err := reg.Lookup("title")
package style

import (
	"slices"
	"sync"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/fonts"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

// DefaultName is the registry key used when a node names no style.
const DefaultName = "_default"

// Style describes how a run of text is measured, anchored and drawn.
// Position anchors the text box inside its node box using the same
// vocabulary as node positions ("center", "50%", pixels).
type Style struct {
	Font     string        `json:"font" toml:"font" yaml:"font"`
	Size     float64       `json:"size" toml:"size" yaml:"size"`
	Color    string        `json:"color" toml:"color" yaml:"color"`
	Position geom.Position `json:"position" toml:"position" yaml:"position"`
}

// Default returns the built-in fallback style.
func Default() Style {
	return Style{
		Font:     fonts.Default,
		Size:     16,
		Color:    "#000000",
		Position: geom.Position{X: geom.Expr("center"), Y: geom.Expr("center")},
	}
}

// Validate checks that s can be measured.
func (s Style) Validate() error {
	if s.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "font size must be positive, got %g", s.Size)
	}
	if _, ok := fonts.Lookup(s.Font); !ok {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown font family %q", s.Font)
	}
	return nil
}

// Registry is a concurrency-safe set of named styles.
type Registry struct {
	mu     sync.RWMutex
	styles map[string]Style
}

// NewRegistry returns a registry holding only the default style.
func NewRegistry() *Registry {
	return &Registry{styles: map[string]Style{DefaultName: Default()}}
}

// Set registers s under name, replacing any previous entry. Setting
// DefaultName overrides the fallback style.
func (r *Registry) Set(name string, s Style) error {
	if err := errors.ValidateStyleName(name); err != nil {
		return err
	}
	if name == "" {
		name = DefaultName
	}
	if err := s.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "style %q", name)
	}
	r.mu.Lock()
	r.styles[name] = s
	r.mu.Unlock()
	return nil
}

// Lookup returns the style registered under name. The empty name selects
// the default style; unknown names are configuration errors.
func (r *Registry) Lookup(name string) (Style, error) {
	if name == "" {
		name = DefaultName
	}
	r.mu.RLock()
	s, ok := r.styles[name]
	r.mu.RUnlock()
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "style %q is not registered", name)
	}
	return s, nil
}

// Names returns the registered style names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
