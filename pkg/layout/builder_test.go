package layout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

func TestBuilderNesting(t *testing.T) {
	b := NewBuilder()
	b.Begin("main", WithDimensions(geom.Px(500), geom.Px(500)), WithFill("#eee"))
	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "main", cur)

	b.Begin("panel", WithPadding(geom.EdgeAll(4)), WithBorder(1, "#000"))
	b.Add("label", WithText("hi"), WithTextStyle("title"))
	require.NoError(t, b.End())
	b.Add("footer", WithDisplay(Absolute), WithPosition(geom.Px(0), geom.Expr("100%")))
	require.NoError(t, b.End())
	b.Add("overlay")

	_, ok = b.Current()
	assert.False(t, ok)

	nodes, err := b.Build()
	require.NoError(t, err)

	got := make(map[string]string)
	var order []string
	for _, n := range nodes {
		got[n.Name] = n.Parent
		order = append(order, n.Name)
	}
	assert.Equal(t, []string{"main", "panel", "label", "footer", "overlay"}, order)
	assert.Equal(t, map[string]string{"main": "", "panel": "main", "label": "panel", "footer": "main", "overlay": ""}, got)

	assert.Equal(t, "#eee", nodes[0].Fill)
	assert.Equal(t, &geom.Border{Width: 1, Color: "#000"}, nodes[1].Border)
	assert.Equal(t, "title", nodes[2].TextStyle)
	assert.Equal(t, Absolute, nodes[3].Display)
}

func TestBuilderGeneratesNames(t *testing.T) {
	b := NewBuilder()
	name := b.Begin("")
	_, err := uuid.Parse(name)
	assert.NoError(t, err, "generated name %q is not a uuid", name)
	other := b.Add("")
	assert.NotEqual(t, name, other)
	require.NoError(t, b.End())

	nodes, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, name, nodes[1].Parent)
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder()
	assert.True(t, errors.Is(b.End(), errors.ErrCodeNoOpenContainer))

	b.Begin("open")
	_, err := b.Build()
	assert.True(t, errors.Is(err, errors.ErrCodeNoOpenContainer), "got %v", err)

	b = NewBuilder()
	b.Add("dup")
	b.Add("dup")
	_, err = b.Build()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidNode), "got %v", err)
}

func TestBuilderKeepsFlexRunsTogether(t *testing.T) {
	b := NewBuilder()
	b.Begin("row", WithFlex(FlexRow), WithDimensions(geom.Px(100), geom.Px(20)))
	b.Begin("a", WithFlex(FlexFixed), WithDimensions(geom.Px(20), geom.Px(20)))
	b.Add("a-label", WithText("a"))
	require.NoError(t, b.End())
	b.Add("b", WithFlex(FlexDynamic))
	b.Add("note")
	require.NoError(t, b.End())

	nodes, err := b.Build()
	require.NoError(t, err)
	var order []string
	for _, n := range nodes {
		order = append(order, n.Name)
	}
	assert.Equal(t, []string{"row", "a", "b", "a-label", "note"}, order)

	refs, err := newTestResolver().Resolve(nodes, Anchor(100, 100))
	require.NoError(t, err)
	bref, _ := refs.Get("b")
	assert.Equal(t, geom.Size{W: 80, H: 20}, bref.Dimensions)
	label, _ := refs.Get("a-label")
	assert.Equal(t, geom.Size{W: 1, H: 2}, label.Dimensions)
}

func TestFlattenIgnoresAuthoredParents(t *testing.T) {
	trees := []Tree{{
		Node: Node{Name: "root", Parent: "bogus"},
		Children: []Tree{
			{Node: Node{Name: "kid", Parent: "also-bogus"}},
		},
	}}
	nodes := Flatten(trees)
	require.Len(t, nodes, 2)
	assert.Equal(t, "", nodes[0].Parent)
	assert.Equal(t, "root", nodes[1].Parent)
}
