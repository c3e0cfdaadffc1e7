package layout

import "github.com/matzehuels/stacklayout/pkg/geom"

// Node is one raw container in declaration order. Parent names an earlier
// node; the empty string anchors the node at the root. Nil geometry means
// "not authored" and selects the inheriting or zero behavior of the node's
// display mode.
type Node struct {
	Name       string           `json:"name" toml:"name" yaml:"name"`
	Parent     string           `json:"parent,omitempty" toml:"parent,omitempty" yaml:"parent,omitempty"`
	Display    Display          `json:"display" toml:"display" yaml:"display"`
	Flex       FlexRole         `json:"flex,omitempty" toml:"flex,omitempty" yaml:"flex,omitempty"`
	Dimensions *geom.Dimensions `json:"dimensions,omitempty" toml:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Position   *geom.Position   `json:"position,omitempty" toml:"position,omitempty" yaml:"position,omitempty"`
	Padding    *geom.Edges      `json:"padding,omitempty" toml:"padding,omitempty" yaml:"padding,omitempty"`
	Border     *geom.Border     `json:"border,omitempty" toml:"border,omitempty" yaml:"border,omitempty"`
	Fill       string           `json:"fill,omitempty" toml:"fill,omitempty" yaml:"fill,omitempty"`
	Text       string           `json:"text,omitempty" toml:"text,omitempty" yaml:"text,omitempty"`
	TextStyle  string           `json:"text_style,omitempty" toml:"text_style,omitempty" yaml:"text_style,omitempty"`
}

// HasText reports whether the node carries a text payload.
func (n Node) HasText() bool { return n.Text != "" }

// NodeOption configures a Node built through a [Builder].
type NodeOption func(*Node)

// WithDisplay sets the display mode.
func WithDisplay(d Display) NodeOption {
	return func(n *Node) { n.Display = d }
}

// WithFlex sets the flex role.
func WithFlex(f FlexRole) NodeOption {
	return func(n *Node) { n.Flex = f }
}

// WithDimensions sets raw dimensions.
func WithDimensions(w, h geom.Value) NodeOption {
	return func(n *Node) { n.Dimensions = &geom.Dimensions{W: w, H: h} }
}

// WithPosition sets a raw position.
func WithPosition(x, y geom.Value) NodeOption {
	return func(n *Node) { n.Position = &geom.Position{X: x, Y: y} }
}

// WithPadding sets the padding children are inset by.
func WithPadding(e geom.Edges) NodeOption {
	return func(n *Node) { n.Padding = &e }
}

// WithBorder sets a border stroke.
func WithBorder(width float64, color string) NodeOption {
	return func(n *Node) { n.Border = &geom.Border{Width: width, Color: color} }
}

// WithFill sets the fill color.
func WithFill(color string) NodeOption {
	return func(n *Node) { n.Fill = color }
}

// WithText sets the text payload.
func WithText(content string) NodeOption {
	return func(n *Node) { n.Text = content }
}

// WithTextStyle names the style the text is measured and drawn with.
func WithTextStyle(name string) NodeOption {
	return func(n *Node) { n.TextStyle = name }
}
