package layout

import (
	"github.com/google/uuid"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Builder assembles a layout tree with explicit open/close calls. The open
// container is tracked by the Builder itself, so independent Builders never
// interfere.
//
//	b := layout.NewBuilder()
//	b.Begin("toolbar", layout.WithFlex(layout.FlexRow))
//	b.Add("icon", layout.WithFlex(layout.FlexFixed), layout.WithDimensions(geom.Px(32), geom.Px(32)))
//	b.Add("title", layout.WithFlex(layout.FlexDynamic), layout.WithText("Inbox"))
//	b.End()
//	nodes, err := b.Build()
type Builder struct {
	roots []*Tree
	open  []*Tree
	// children per tree in declaration order; Tree.Children is filled on export.
	children map[*Tree][]*Tree
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{children: make(map[*Tree][]*Tree)}
}

// Begin adds a node as a child of the open container (or at the top level)
// and opens it. An empty name is replaced by a generated one, which is
// returned.
func (b *Builder) Begin(name string, opts ...NodeOption) string {
	t := b.add(name, opts)
	b.open = append(b.open, t)
	return t.Name
}

// End closes the open container.
func (b *Builder) End() error {
	if len(b.open) == 0 {
		return errors.New(errors.ErrCodeNoOpenContainer, "no open container; missing Begin")
	}
	b.open = b.open[:len(b.open)-1]
	return nil
}

// Add adds a leaf node to the open container (or at the top level) and
// returns its name.
func (b *Builder) Add(name string, opts ...NodeOption) string {
	return b.add(name, opts).Name
}

// Current returns the name of the open container.
func (b *Builder) Current() (string, bool) {
	if len(b.open) == 0 {
		return "", false
	}
	return b.open[len(b.open)-1].Name, true
}

func (b *Builder) add(name string, opts []NodeOption) *Tree {
	if name == "" {
		name = uuid.NewString()
	}
	t := &Tree{Node: Node{Name: name}}
	for _, opt := range opts {
		opt(&t.Node)
	}
	if parent, ok := b.top(); ok {
		t.Parent = parent.Name
		b.children[parent] = append(b.children[parent], t)
	} else {
		b.roots = append(b.roots, t)
	}
	return t
}

func (b *Builder) top() (*Tree, bool) {
	if len(b.open) == 0 {
		return nil, false
	}
	return b.open[len(b.open)-1], true
}

// Trees returns the built hierarchy.
func (b *Builder) Trees() []Tree {
	out := make([]Tree, len(b.roots))
	for i, t := range b.roots {
		out[i] = b.tree(t)
	}
	return out
}

func (b *Builder) tree(t *Tree) Tree {
	out := Tree{Node: t.Node}
	for _, c := range b.children[t] {
		out.Children = append(out.Children, b.tree(c))
	}
	return out
}

// Nodes returns the flattened declaration order, see [Flatten].
func (b *Builder) Nodes() []Node {
	return Flatten(b.Trees())
}

// Build is Nodes, failing when a container was left open or the sequence
// does not validate.
func (b *Builder) Build() ([]Node, error) {
	if name, ok := b.Current(); ok {
		return nil, errors.New(errors.ErrCodeNoOpenContainer, "container %q was never closed", name)
	}
	nodes := b.Nodes()
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
