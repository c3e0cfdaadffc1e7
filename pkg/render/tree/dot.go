package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/render"
)

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds resolved geometry and text to node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts resolved references to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPNG] or [RenderPDF].
func ToDOT(refs *layout.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, ref := range refs.All() {
		fmt.Fprintf(&buf, "  %q [%s];\n", ref.Name, strings.Join(fmtAttrs(ref, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, ref := range refs.All() {
		if ref.Parent == "" {
			continue
		}
		if _, ok := refs.Get(ref.Parent); !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", ref.Parent, ref.Name)
	}

	for _, ref := range refs.All() {
		if !ref.Flex.IsContainer() {
			continue
		}
		var items []string
		for _, c := range refs.Children(ref.Name) {
			if c.Flex.IsItem() {
				items = append(items, strconv.Quote(c.Name))
			}
		}
		if len(items) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(items, "; "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(ref *layout.Reference, detailed bool) string {
	if !detailed {
		return ref.Name
	}
	parts := []string{
		fmt.Sprintf("%g x %g @ (%g, %g)", ref.Dimensions.W, ref.Dimensions.H, ref.Position.X, ref.Position.Y),
		ref.Display.String(),
	}
	if ref.Flex != layout.FlexNone {
		parts = append(parts, "flex: "+ref.Flex.String())
	}
	if ref.Text != nil {
		content := ref.Text.Content
		if len(content) > 24 {
			content = content[:21] + "..."
		}
		parts = append(parts, fmt.Sprintf("text: %q", content))
	}
	return ref.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(ref *layout.Reference, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(ref, detailed))}
	switch {
	case ref.Flex.IsContainer():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightblue")
	case ref.Flex.IsItem():
		attrs = append(attrs, "fillcolor=aliceblue")
	case ref.Display == layout.Absolute:
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	if ref.Fill != "" && strings.HasPrefix(ref.Fill, "#") {
		attrs = append(attrs, fmt.Sprintf("color=%q", ref.Fill), "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(dot string) ([]byte, error) {
	out, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
