package geom

import "fmt"

// Dimensions is a raw, possibly symbolic, width and height.
type Dimensions struct {
	W Value `json:"w" toml:"w" yaml:"w"`
	H Value `json:"h" toml:"h" yaml:"h"`
}

// HasExpressions reports whether either axis is symbolic.
func (d Dimensions) HasExpressions() bool { return d.W.IsExpr() || d.H.IsExpr() }

// Concrete returns the dimensions as a Size when both axes are concrete.
func (d Dimensions) Concrete() (Size, bool) {
	w, okW := d.W.Float()
	h, okH := d.H.Float()
	return Size{W: w, H: h}, okW && okH
}

// Position is a raw, possibly symbolic, x and y.
type Position struct {
	X Value `json:"x" toml:"x" yaml:"x"`
	Y Value `json:"y" toml:"y" yaml:"y"`
}

// HasExpressions reports whether either axis is symbolic.
func (p Position) HasExpressions() bool { return p.X.IsExpr() || p.Y.IsExpr() }

// Size is a resolved width and height in pixels.
type Size struct {
	W float64 `json:"w" toml:"w" yaml:"w"`
	H float64 `json:"h" toml:"h" yaml:"h"`
}

func (s Size) String() string { return fmt.Sprintf("{%g %g}", s.W, s.H) }

// Point is a resolved position in pixels.
type Point struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) String() string { return fmt.Sprintf("{%g %g}", p.X, p.Y) }

// Edges represents values for four sides of a box.
type Edges struct {
	Top    float64 `json:"t" toml:"t" yaml:"t"`
	Right  float64 `json:"r" toml:"r" yaml:"r"`
	Bottom float64 `json:"b" toml:"b" yaml:"b"`
	Left   float64 `json:"l" toml:"l" yaml:"l"`
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(n float64) Edges {
	return Edges{Top: n, Right: n, Bottom: n, Left: n}
}

// Horizontal returns the sum of Left and Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the sum of Top and Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// IsZero returns true if all edge values are zero.
func (e Edges) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}

// Inset shrinks the box at pos with size s by e. The resulting size never
// goes negative.
func (e Edges) Inset(pos Point, s Size) (Point, Size) {
	return Point{X: pos.X + e.Left, Y: pos.Y + e.Top},
		Size{W: max(0, s.W-e.Horizontal()), H: max(0, s.H-e.Vertical())}
}

// Border is a stroke drawn around a container.
type Border struct {
	Width float64 `json:"width" toml:"width" yaml:"width"`
	Color string  `json:"color" toml:"color" yaml:"color"`
}
