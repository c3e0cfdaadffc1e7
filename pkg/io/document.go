package io

import (
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/style"
)

// Document is a complete layout description.
type Document struct {
	Viewport *geom.Size           `json:"viewport,omitempty" toml:"viewport,omitempty" yaml:"viewport,omitempty"`
	Root     *geom.Size           `json:"root,omitempty" toml:"root,omitempty" yaml:"root,omitempty"`
	Styles   map[string]StyleSpec `json:"styles,omitempty" toml:"styles,omitempty" yaml:"styles,omitempty"`
	Tree     []layout.Tree        `json:"nodes" toml:"nodes" yaml:"nodes"`
}

// StyleSpec is a partially specified style. Unset fields fall back to
// [style.Default].
type StyleSpec struct {
	Font     string         `json:"font,omitempty" toml:"font,omitempty" yaml:"font,omitempty"`
	Size     float64        `json:"size,omitempty" toml:"size,omitempty" yaml:"size,omitempty"`
	Color    string         `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Position *geom.Position `json:"position,omitempty" toml:"position,omitempty" yaml:"position,omitempty"`
}

// Style fills unset fields from the default style.
func (s StyleSpec) Style() style.Style {
	out := style.Default()
	if s.Font != "" {
		out.Font = s.Font
	}
	if s.Size != 0 {
		out.Size = s.Size
	}
	if s.Color != "" {
		out.Color = s.Color
	}
	if s.Position != nil {
		out.Position = *s.Position
	}
	return out
}

// SpecFromStyle is the inverse of [StyleSpec.Style].
func SpecFromStyle(s style.Style) StyleSpec {
	pos := s.Position
	return StyleSpec{Font: s.Font, Size: s.Size, Color: s.Color, Position: &pos}
}

// Nodes returns the node tree flattened into resolver order.
func (d *Document) Nodes() []layout.Node {
	return layout.Flatten(d.Tree)
}

// Registry builds a style registry from the document's styles.
func (d *Document) Registry() (*style.Registry, error) {
	reg := style.NewRegistry()
	for name, spec := range d.Styles {
		if err := reg.Set(name, spec.Style()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Anchor returns the root reference nodes resolve against: Root when set,
// the viewport otherwise.
func (d *Document) Anchor() (*layout.Reference, error) {
	switch {
	case d.Root != nil:
		return layout.Anchor(d.Root.W, d.Root.H), nil
	case d.Viewport != nil:
		return layout.Anchor(d.Viewport.W, d.Viewport.H), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "document has neither root nor viewport")
}

// ResolverOptions returns the resolver options the document implies: its
// viewport and style registry.
func (d *Document) ResolverOptions() ([]layout.Option, error) {
	reg, err := d.Registry()
	if err != nil {
		return nil, err
	}
	opts := []layout.Option{layout.WithStyles(reg)}
	if d.Viewport != nil {
		opts = append(opts, layout.WithViewport(d.Viewport.W, d.Viewport.H))
	}
	return opts, nil
}
