// Package pkg provides the core libraries for Stacklayout.
//
// # Overview
//
// Stacklayout turns a declarative description of nested boxes into absolute
// geometry. Sizes and positions may be pixels, "100%", "50%" or "center";
// flex rows and columns distribute space among their items; absolute nodes
// are placed against the viewport. The pkg
// directory is organized into four main areas:
//
//  1. [layout] - Domain logic (expressions, containers, flex, references)
//  2. [io] - Document encodings (JSON, TOML, YAML) and reference export
//  3. [render] - Output sinks (SVG, PNG, JPEG, PDF, JSON) and the [render/tree] hierarchy graph
//  4. [pipeline] - Orchestration (load → resolve → render) with [cache]
//
// # Architecture
//
// The typical data flow through Stacklayout:
//
//	Layout document (JSON/TOML/YAML)
//	         ↓
//	    [io] package (decode, flatten the node tree)
//	         ↓
//	    [layout] package (resolve against the anchor)
//	         ↓
//	    [render] package (draw references)
//	         ↓
//	    SVG/PNG/JPEG/PDF/JSON/DOT output
//
// # Quick Start
//
// Build a layout in code and resolve it:
//
//	import (
//	    "github.com/matzehuels/stacklayout/pkg/geom"
//	    "github.com/matzehuels/stacklayout/pkg/layout"
//	    "github.com/matzehuels/stacklayout/pkg/render/sink"
//	)
//
//	b := layout.NewBuilder()
//	b.Begin("toolbar", layout.WithFlex(layout.FlexRow),
//	    layout.WithDimensions(geom.Expr("100%"), geom.Px(40)))
//	b.Add("icon", layout.WithFlex(layout.FlexFixed),
//	    layout.WithDimensions(geom.Px(40), geom.Px(40)))
//	b.Add("title", layout.WithFlex(layout.FlexDynamic), layout.WithText("Hello"))
//	_ = b.End()
//	nodes, _ := b.Build()
//
//	r := layout.New(layout.WithViewport(800, 600))
//	refs, _ := r.Resolve(nodes, layout.Anchor(800, 600))
//	svg := sink.RenderSVG(refs)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [geom] - Values (pixels or unresolved expressions), sizes, points, edges.
//
// [expr] - The expression evaluator: "100%" and "50%" of a reference
// magnitude and "center" positioning, with half-up rounding.
//
// [layout] - The resolver. Nodes are processed in declaration order; each
// resolves against its parent's reference, flex containers resolve their
// items as one run, absolute nodes resolve against the viewport.
//
// [style], [text], [fonts] - Named text styles, text measurement (embedded
// OpenType faces or a fast approximation), and the bundled Go fonts.
//
// ## Serialization
//
// [io] - Layout documents with nested children, style maps and viewport, in
// JSON, TOML or YAML. References round-trip as JSON.
//
// ## Visualization
//
// [render/sink] - Draws references: SVG directly, PNG/JPEG by rasterizing the
// SVG, PDF via rsvg-convert.
//
// [render/tree] - The container hierarchy as a Graphviz graph.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (load → resolve → render) used by the CLI
// and the HTTP server. Ensures consistent behavior across entry points.
//
// [cache] - Resolve and artifact caching with file, Redis and null backends.
//
// [server] - HTTP API over the pipeline.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/render
// [render/tree]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/render/tree
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/errors
// [geom]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/geom
// [expr]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/expr
// [style]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/style
// [text]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/text
// [fonts]: https://pkg.go.dev/github.com/matzehuels/stacklayout/pkg/fonts
package pkg
