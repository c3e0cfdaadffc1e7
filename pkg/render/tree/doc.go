// Package tree renders the container hierarchy of a resolved layout as a
// Graphviz diagram.
//
// Each reference becomes a box labelled with its name, resolved size and
// position; edges run from parent to child. Flex containers are drawn
// dashed and flex items are grouped into a same-rank subgraph so a run
// reads left to right:
//
//	dot := tree.ToDOT(refs, tree.Options{Detailed: true})
//	svg, err := tree.RenderSVG(dot)
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system Graphviz install is needed.
package tree
