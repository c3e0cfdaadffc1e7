package layout

import (
	"github.com/matzehuels/stacklayout/pkg/errors"
)

// flexRun is a flex container waiting for the end of its item run.
type flexRun struct {
	parent *Node
	ref    *Reference
	items  []Node
}

// Resolve resolves nodes in declaration order against root and returns one
// reference per node. Parents must precede their children.
//
// Flex items are collected until the next node without an item role, then
// distributed inside their flex container as [Resolver.ResolveFlex] does.
// The container itself is resolved once, when it is reached. Any error aborts the pass and no map is returned.
func (r *Resolver) Resolve(nodes []Node, root *Reference) (*Map, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root anchor is nil")
	}
	if err := Validate(nodes); err != nil {
		return nil, err
	}

	out := NewMap()
	anchorOf := func(n Node) (*Reference, error) {
		if n.Parent == "" {
			return root, nil
		}
		if ref, ok := out.Get(n.Parent); ok {
			return ref, nil
		}
		return nil, errors.New(errors.ErrCodeUnresolvedParent, "node %q resolved before its parent %q", n.Name, n.Parent)
	}

	var run flexRun
	flush := func() error {
		if run.parent == nil || len(run.items) == 0 {
			run = flexRun{}
			return nil
		}
		refs, err := r.distribute(run.ref, *run.parent, run.items)
		if err != nil {
			return err
		}
		// The container keeps its original slot; Set replaces in place.
		for _, ref := range refs {
			out.Set(ref)
		}
		run = flexRun{}
		return nil
	}

	for _, n := range nodes {
		if n.Flex.IsItem() {
			if run.parent == nil {
				return nil, errors.New(errors.ErrCodeInvalidFlexRole, "flex item %q has no open flex container", n.Name)
			}
			run.items = append(run.items, n)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		anchor, err := anchorOf(n)
		if err != nil {
			return nil, err
		}
		ref, err := r.ResolveContainer(n, anchor)
		if err != nil {
			return nil, err
		}
		out.Set(ref)
		if n.Flex.IsContainer() {
			run.parent, run.ref = &n, ref
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved layout", "nodes", out.Len())
	return out, nil
}
