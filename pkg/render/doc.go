// Package render turns resolved layouts into images and documents.
//
// # Overview
//
//   - [sink]: draws a resolved reference map as SVG, PNG, JPEG, PDF or JSON
//   - [tree]: draws the container hierarchy as a Graphviz diagram, useful
//     when debugging parent links and flex runs
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). PDF output always goes through it; PNG output is
// rasterized in pure Go by default.
//
//	svg := sink.RenderSVG(refs, sink.WithCanvas(1280, 720))
//	pdf, err := render.ToPDF(svg)
//
// [sink]: github.com/matzehuels/stacklayout/pkg/render/sink
// [tree]: github.com/matzehuels/stacklayout/pkg/render/tree
package render
