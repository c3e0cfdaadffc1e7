package layout

import (
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/style"
)

// ResolveContainer resolves a single node against its parent's reference.
// Flex roles are ignored here; see [Resolver.ResolveFlex].
func (r *Resolver) ResolveContainer(n Node, parent *Reference) (*Reference, error) {
	if parent == nil {
		return nil, errors.New(errors.ErrCodeUnresolvedParent, "node %q has no anchor", n.Name)
	}
	anchorPos, anchorSize := parent.ContentBox()

	size, err := r.resolveDimensions(n, anchorSize)
	if err != nil {
		return nil, err
	}
	pos, err := r.resolvePosition(n, size, n.Dimensions != nil, anchorPos, anchorSize)
	if err != nil {
		return nil, err
	}
	size = clamp(n, size, anchorSize)

	ref := &Reference{
		Name:       n.Name,
		Parent:     n.Parent,
		Display:    n.Display,
		Flex:       n.Flex,
		Dimensions: size,
		Position:   pos,
		Fill:       n.Fill,
		Border:     n.Border,
		Padding:    n.Padding,
	}
	if !n.HasText() {
		return ref, nil
	}

	styleName := n.TextStyle
	if styleName == "" {
		styleName = style.DefaultName
	}
	st, err := r.styles.Lookup(styleName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "node %q", n.Name)
	}
	measured, err := r.measurer.Measure(n.Text, st)
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidStyle), err, "measure text of node %q", n.Name)
	}
	// Text-sized nodes take the measured box, which moves any expression
	// based position.
	if n.Dimensions == nil {
		ref.Dimensions = measured
		if ref.Position, err = r.resolvePosition(n, measured, true, anchorPos, anchorSize); err != nil {
			return nil, err
		}
	}
	offset, err := r.eval.Position(st.Position, measured, ref.Dimensions)
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidStyle), err, "text anchor of node %q", n.Name)
	}
	ref.Text = &TextReference{
		Content:    n.Text,
		StyleName:  styleName,
		Style:      st,
		Dimensions: measured,
		Offset:     offset,
		Position:   offset.Add(ref.Position),
	}
	return ref, nil
}

func (r *Resolver) resolveDimensions(n Node, anchor geom.Size) (geom.Size, error) {
	switch n.Display {
	case Absolute:
		if n.Dimensions == nil {
			if !n.HasText() {
				r.logger.Warn("absolute node has no dimensions and will not display", "node", n.Name)
			}
			return geom.Size{}, nil
		}
		vp, err := r.requireViewport(n.Name)
		if err != nil {
			return geom.Size{}, err
		}
		return r.eval.Dimensions(*n.Dimensions, vp)
	case Inherit:
		if n.Dimensions == nil {
			return anchor, nil
		}
		size, err := r.eval.Dimensions(*n.Dimensions, anchor)
		if err != nil {
			return geom.Size{}, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "dimensions of node %q", n.Name)
		}
		return size, nil
	}
	return geom.Size{}, errors.New(errors.ErrCodeInvalidDisplay, "node %q has unknown display mode %d", n.Name, uint8(n.Display))
}

// resolvePosition places a node of the given size. sized reports whether
// size is final; an Absolute text node with a symbolic position and no
// final size is left at the origin until its text has been measured.
func (r *Resolver) resolvePosition(n Node, size geom.Size, sized bool, anchorPos geom.Point, anchorSize geom.Size) (geom.Point, error) {
	switch n.Display {
	case Absolute:
		if n.Position == nil {
			return geom.Point{}, nil
		}
		if n.HasText() && !sized && n.Position.HasExpressions() {
			return geom.Point{}, nil
		}
		vp, err := r.requireViewport(n.Name)
		if err != nil {
			return geom.Point{}, err
		}
		return r.eval.Position(*n.Position, size, vp)
	case Inherit:
		if n.Position == nil {
			return anchorPos, nil
		}
		p, err := r.eval.Position(*n.Position, size, anchorSize)
		if err != nil {
			return geom.Point{}, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "position of node %q", n.Name)
		}
		return p.Add(anchorPos), nil
	}
	return geom.Point{}, errors.New(errors.ErrCodeInvalidDisplay, "node %q has unknown display mode %d", n.Name, uint8(n.Display))
}

// clamp shrinks size so a node with a concrete authored position stays
// inside the anchor box. Symbolic positions are exempt.
func clamp(n Node, size, anchor geom.Size) geom.Size {
	if n.Position == nil {
		return size
	}
	if x, ok := n.Position.X.Float(); ok && x+size.W > anchor.W {
		size.W = max(0, anchor.W-x)
	}
	if y, ok := n.Position.Y.Float(); ok && y+size.H > anchor.H {
		size.H = max(0, anchor.H-y)
	}
	return size
}
