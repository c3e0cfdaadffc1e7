// Package io reads and writes layout documents and resolved references.
//
// # Document Format
//
// A document carries the viewport, the root anchor, named text styles and a
// tree of nodes. The same structure is accepted as JSON, TOML or YAML:
//
//	viewport: {w: 1280, h: 720}
//	styles:
//	  title: {font: Go Bold, size: 32, color: "#222"}
//	nodes:
//	  - name: main
//	    dimensions: {w: "100%", h: "100%"}
//	    padding: {t: 10, r: 10, b: 10, l: 10}
//	    children:
//	      - name: heading
//	        text: Hello
//	        text_style: title
//	        position: {x: center, y: 0}
//
// Geometry values are numbers (pixels) or expression strings ("100%",
// "50%", "center"). Display is "inherit" or "absolute"; flex is one of
// "row", "col", "fixed" or "dynamic".
//
// Styles may omit fields; missing fields take the default style's values.
// When root is omitted the viewport doubles as the root anchor.
//
// # Import
//
// Use [ImportDocument] to read a file (format chosen by extension) or
// [ReadDocument] to decode from any io.Reader. [Document.Nodes] flattens the
// tree into resolver order.
//
// # Export
//
// [WriteDocument] re-encodes a document in any supported format.
// [WriteReferences] and [ExportReferences] write resolved references as a
// JSON array in resolution order; [ReadReferences] reads them back.
package io
