// Package sink provides output format renderers for resolved layouts.
//
// # Overview
//
// A "sink" transforms a resolved [layout.Map] into a final output format:
//
//   - SVG: one rect per styled box, one text element per line of text
//   - PNG/JPEG: pure Go rasterization (oksvg for boxes, embedded Go fonts
//     for text), encoded with imaging
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: the resolved references plus canvas size
//
// Boxes without fill or border are invisible and produce no output. Drawing
// follows resolution order, which puts parents beneath their children.
//
// # Usage
//
//	svg := sink.RenderSVG(refs, sink.WithCanvas(800, 600))
//	png, err := sink.RenderPNG(refs, sink.WithScale(2),
//	    sink.WithPNGSVGOptions(sink.WithCanvas(800, 600)))
//	pdf, err := sink.RenderPDF(refs)
//
// [layout.Map]: github.com/matzehuels/stacklayout/pkg/layout.Map
package sink
