// Package layout resolves a declarative tree of container nodes into
// absolute pixel boxes.
//
// # Overview
//
// Input is a flat, declaration-ordered slice of [Node] values. Each node
// names its parent, carries raw geometry that may be symbolic ("100%",
// "50%", "center"), and optionally a flex role and a text payload. Parents
// must precede their children. A [Resolver] walks the sequence once and
// produces a [Map] of [Reference] values, one per node, in resolution order.
//
// # Display Modes
//
//   - [Inherit] nodes resolve inside their parent: missing dimensions and
//     position copy the parent's content box, authored ones are evaluated
//     against it and translated by the parent's position.
//   - [Absolute] nodes resolve against the viewport ([WithViewport]) and are
//     not translated.
//
// Children resolve against the parent's content box, the parent box inset by
// its padding. A child with a concrete authored position that would overflow
// that box is clamped on the offending axis.
//
// # Flex Runs
//
// A [FlexRow] or [FlexCol] node opens a run. The [FlexFixed] and
// [FlexDynamic] nodes that follow it are collected and distributed along the
// run's axis: fixed items keep their authored size, dynamic items share the
// remaining space equally. The first node without an item role closes the
// run. Items of a run are positioned one after another in declaration order.
//
// # Text
//
// Nodes with text are measured through a [text.Measurer] using a style from
// a [StyleLookup]. A text node without authored dimensions takes its
// measured size, after which its position is resolved again.
//
// # Usage
//
//	b := layout.NewBuilder()
//	b.Begin("main", layout.WithDimensions(geom.Px(500), geom.Px(500)))
//	b.Add("title", layout.WithText("hello"))
//	b.End()
//	nodes, _ := b.Build()
//
//	r := layout.New(layout.WithViewport(1280, 720))
//	refs, err := r.Resolve(nodes, layout.Anchor(1280, 720))
package layout
