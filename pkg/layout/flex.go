package layout

import (
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

// ResolveFlex resolves a flex container and the items of its run. The
// container is resolved against anchor; items are laid out one after
// another along its axis inside its content box. The returned slice starts
// with the container, followed by the items in declaration order.
//
// Fixed items need concrete authored dimensions. Dynamic items share the
// space left over by fixed items equally and span the full cross axis.
// When fixed items overflow the axis, dynamic items get zero extent and the
// run continues past the container's edge; nothing is clipped or scaled.
// Nodes are not modified: every item is resolved from a copy carrying its
// distributed geometry.
func (r *Resolver) ResolveFlex(anchor *Reference, parent Node, items []Node) ([]*Reference, error) {
	if !parent.Flex.IsContainer() {
		return nil, errors.New(errors.ErrCodeInvalidFlexRole, "node %q is not a flex container (flex %q)", parent.Name, parent.Flex)
	}
	pref, err := r.ResolveContainer(parent, anchor)
	if err != nil {
		return nil, err
	}
	return r.distribute(pref, parent, items)
}

// distribute lays out items inside the already resolved container pref.
func (r *Resolver) distribute(pref *Reference, parent Node, items []Node) ([]*Reference, error) {
	row := parent.Flex == FlexRow
	_, content := pref.ContentBox()
	axis := along(content, row)

	var fixed float64
	dynamic := 0
	for _, it := range items {
		switch it.Flex {
		case FlexFixed:
			size, err := fixedSize(it)
			if err != nil {
				return nil, err
			}
			fixed += along(size, row)
		case FlexDynamic:
			dynamic++
		default:
			return nil, errors.New(errors.ErrCodeInvalidFlexRole, "node %q in flex run of %q has flex role %q", it.Name, parent.Name, it.Flex)
		}
	}
	var share float64
	if dynamic > 0 {
		share = max(0, axis-fixed) / float64(dynamic)
	}

	refs := make([]*Reference, 0, len(items)+1)
	refs = append(refs, pref)
	offset := 0.0
	for _, it := range items {
		var size geom.Size
		if it.Flex == FlexDynamic {
			size = geom.Size{W: content.W, H: content.H}
			if row {
				size.W = share
			} else {
				size.H = share
			}
		} else {
			size, _ = fixedSize(it)
		}

		pos := geom.Position{X: geom.Px(0), Y: geom.Px(0)}
		if it.Position != nil {
			pos = *it.Position
		}
		if row {
			pos.X = geom.Px(offset)
		} else {
			pos.Y = geom.Px(offset)
		}
		offset += along(size, row)

		derived := it
		derived.Dimensions = &geom.Dimensions{W: geom.Px(size.W), H: geom.Px(size.H)}
		derived.Position = &pos
		ref, err := r.ResolveContainer(derived, pref)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	r.logger.Debug("distributed flex run", "container", parent.Name, "items", len(items), "axis", axis, "share", share)
	return refs, nil
}

func fixedSize(n Node) (geom.Size, error) {
	if n.Dimensions == nil {
		return geom.Size{}, errors.New(errors.ErrCodeFlexFixedDimensions, "fixed flex item %q has no dimensions", n.Name)
	}
	size, ok := n.Dimensions.Concrete()
	if !ok {
		return geom.Size{}, errors.New(errors.ErrCodeFlexFixedDimensions, "fixed flex item %q has symbolic dimensions %s x %s", n.Name, n.Dimensions.W, n.Dimensions.H)
	}
	return size, nil
}

// along returns the extent of s on the run axis.
func along(s geom.Size, row bool) float64 {
	if row {
		return s.W
	}
	return s.H
}
