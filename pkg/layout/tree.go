package layout

// Tree is a node with nested children, the shape layouts are usually
// authored in. Parent fields inside a Tree are ignored; [Flatten] derives
// them from nesting.
type Tree struct {
	Node     `yaml:",inline"`
	Children []Tree `json:"children,omitempty" toml:"children,omitempty" yaml:"children,omitempty"`
}

// Flatten turns trees into the declaration-ordered sequence [Resolver.Resolve]
// expects. Every node follows its parent. The flex item children of a flex
// container are emitted back to back right after it, and only then their
// own subtrees, so a run is never interrupted by an item's descendants.
func Flatten(roots []Tree) []Node {
	var out []Node
	for i := range roots {
		out = flatten(out, &roots[i], "")
	}
	return out
}

func flatten(out []Node, t *Tree, parent string) []Node {
	n := t.Node
	n.Parent = parent
	out = append(out, n)
	if !n.Flex.IsContainer() {
		for i := range t.Children {
			out = flatten(out, &t.Children[i], n.Name)
		}
		return out
	}
	for i := range t.Children {
		if c := t.Children[i].Node; c.Flex.IsItem() {
			c.Parent = n.Name
			out = append(out, c)
		}
	}
	for i := range t.Children {
		c := &t.Children[i]
		if !c.Flex.IsItem() {
			out = flatten(out, c, n.Name)
			continue
		}
		for j := range c.Children {
			out = flatten(out, &c.Children[j], c.Name)
		}
	}
	return out
}
