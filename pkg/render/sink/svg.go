package sink

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/fonts"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	canvas     *geom.Size
	background string
	embedFonts bool
	skipText   bool
	faces      *text.OpenType
}

// WithCanvas fixes the drawing size. Without it the canvas is the bounding
// box of all references.
func WithCanvas(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.canvas = &geom.Size{W: w, H: h} }
}

// WithBackground fills the canvas before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithEmbeddedFonts inlines the TTF data of every used font family so the
// SVG renders identically without the fonts installed.
func WithEmbeddedFonts() SVGOption { return func(r *svgRenderer) { r.embedFonts = true } }

// WithFaces shares a measurer for baseline metrics.
func WithFaces(m *text.OpenType) SVGOption { return func(r *svgRenderer) { r.faces = m } }

func withoutText() SVGOption { return func(r *svgRenderer) { r.skipText = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if r.faces == nil {
		r.faces = text.NewOpenType()
	}
	return r
}

// RenderSVG draws refs in resolution order, so parents end up beneath their
// children. Boxes become rects with id "node-<name>"; text is placed on its
// resolved position with one <text> element per line.
func RenderSVG(refs *layout.Map, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	canvas := r.canvasSize(refs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		canvas.W, canvas.H, canvas.W, canvas.H)

	if r.embedFonts && !r.skipText {
		renderFontFaces(&buf, refs)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", canvas.W, canvas.H, attr(r.background))
	}
	for _, ref := range refs.All() {
		renderBox(&buf, ref)
	}
	if !r.skipText {
		for _, ref := range refs.All() {
			if ref.Text != nil {
				r.renderText(&buf, ref)
			}
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) canvasSize(refs *layout.Map) geom.Size {
	if r.canvas != nil {
		return *r.canvas
	}
	return Bounds(refs)
}

// Bounds returns the smallest canvas anchored at the origin that holds
// every reference box.
func Bounds(refs *layout.Map) geom.Size {
	var s geom.Size
	for _, ref := range refs.All() {
		s.W = max(s.W, ref.Position.X+ref.Dimensions.W)
		s.H = max(s.H, ref.Position.Y+ref.Dimensions.H)
	}
	return s
}

func renderBox(buf *bytes.Buffer, ref *layout.Reference) {
	if ref.Fill == "" && ref.Border == nil {
		return
	}
	fill := ref.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(buf, `  <rect id="node-%s" class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"`,
		attr(ref.Name), ref.Position.X, ref.Position.Y, ref.Dimensions.W, ref.Dimensions.H, attr(fill))
	if ref.Border != nil && ref.Border.Width > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.2f"`, attr(ref.Border.Color), ref.Border.Width)
	}
	buf.WriteString("/>\n")
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, ref *layout.Reference) {
	t := ref.Text
	family, ok := fonts.Lookup(t.Style.Font)
	if !ok {
		family, _ = fonts.Lookup(fonts.Default)
	}
	ascent, lineHeight, err := r.faces.LineMetrics(family.Name, t.Style.Size)
	if err != nil {
		ascent, lineHeight = t.Style.Size*0.8, t.Style.Size
	}
	color := t.Style.Color
	if color == "" {
		color = "#000000"
	}
	for i, line := range strings.Split(t.Content, "\n") {
		fmt.Fprintf(buf, `  <text class="node-text" data-node="%s" x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="%s">%s</text>`+"\n",
			attr(ref.Name), t.Position.X, t.Position.Y+ascent+float64(i)*lineHeight,
			attr(family.CSS), t.Style.Size, attr(color), html.EscapeString(line))
	}
}

func renderFontFaces(buf *bytes.Buffer, refs *layout.Map) {
	used := make(map[string]fonts.Family)
	for _, ref := range refs.All() {
		if ref.Text == nil {
			continue
		}
		if f, ok := fonts.Lookup(ref.Text.Style.Font); ok {
			used[f.Name] = f
		}
	}
	if len(used) == 0 {
		return
	}
	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	slices.Sort(names)

	buf.WriteString("  <defs><style>\n")
	for _, name := range names {
		fmt.Fprintf(buf, "    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			name, fonts.Base64(used[name]))
	}
	buf.WriteString("  </style></defs>\n")
}

func attr(s string) string { return html.EscapeString(s) }
