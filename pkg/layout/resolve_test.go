package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

func TestResolvePaddingScenario(t *testing.T) {
	pad := geom.EdgeAll(10)
	nodes := []Node{
		{Name: "main", Display: Absolute, Dimensions: px(500, 500), Position: at(0, 0), Padding: &pad},
		{Name: "child1", Parent: "main", Position: at(5, 5)},
		{Name: "child2", Parent: "main", Position: at(5, 5), Text: "text"},
	}
	refs, err := newTestResolver(WithViewport(500, 500)).Resolve(nodes, Anchor(500, 500))
	require.NoError(t, err)

	main, _ := refs.Get("main")
	assert.Equal(t, geom.Size{W: 500, H: 500}, main.Dimensions)
	assert.Equal(t, &pad, main.Padding)

	child1, _ := refs.Get("child1")
	assert.Equal(t, geom.Size{W: 475, H: 475}, child1.Dimensions)
	assert.Equal(t, geom.Point{X: 15, Y: 15}, child1.Position)

	child2, _ := refs.Get("child2")
	assert.Equal(t, geom.Size{W: 4, H: 2}, child2.Dimensions)
	assert.Equal(t, geom.Point{X: 15, Y: 15}, child2.Position)
}

func TestResolveTextOnlyChild(t *testing.T) {
	nodes := []Node{
		{Name: "main", Dimensions: px(100, 100)},
		{Name: "label", Parent: "main", Text: "text"},
	}
	refs, err := newTestResolver().Resolve(nodes, Anchor(100, 100))
	require.NoError(t, err)
	label, _ := refs.Get("label")
	assert.Equal(t, geom.Size{W: 4, H: 2}, label.Dimensions)
	assert.Equal(t, geom.Point{}, label.Position)
}

func TestResolveFlexScenario(t *testing.T) {
	nodes := []Node{
		{Name: "main", Flex: FlexRow, Dimensions: px(500, 100)},
		{Name: "fixed", Parent: "main", Flex: FlexFixed, Dimensions: px(100, 100)},
		{Name: "dynamic", Parent: "main", Flex: FlexDynamic},
	}
	refs, err := newTestResolver().Resolve(nodes, Anchor(500, 500))
	require.NoError(t, err)

	dyn, ok := refs.Get("dynamic")
	require.True(t, ok)
	assert.Equal(t, geom.Size{W: 400, H: 100}, dyn.Dimensions)
	assert.Equal(t, geom.Point{X: 100, Y: 0}, dyn.Position)
}

func TestResolveInterleavedRuns(t *testing.T) {
	nodes := []Node{
		{Name: "page", Dimensions: px(300, 300), Position: at(10, 10)},
		{Name: "top", Parent: "page", Flex: FlexRow, Dimensions: px(300, 30)},
		{Name: "logo", Parent: "top", Flex: FlexFixed, Dimensions: px(30, 30)},
		{Name: "title", Parent: "top", Flex: FlexDynamic},
		{Name: "logo-img", Parent: "logo"},
		{Name: "body", Parent: "page", Flex: FlexCol, Dimensions: px(300, 270), Position: at(0, 30)},
		{Name: "a", Parent: "body", Flex: FlexDynamic},
		{Name: "b", Parent: "body", Flex: FlexDynamic},
		{Name: "empty", Parent: "page", Flex: FlexRow, Dimensions: px(10, 10)},
	}
	refs, err := newTestResolver().Resolve(nodes, Anchor(1000, 1000))
	require.NoError(t, err)

	// Every node resolved exactly once, in declaration order.
	want := make([]string, len(nodes))
	for i, n := range nodes {
		want[i] = n.Name
	}
	assert.Equal(t, want, refs.Names())

	cases := map[string]struct {
		size geom.Size
		pos  geom.Point
	}{
		"top":      {geom.Size{W: 300, H: 30}, geom.Point{X: 10, Y: 10}},
		"logo":     {geom.Size{W: 30, H: 30}, geom.Point{X: 10, Y: 10}},
		"title":    {geom.Size{W: 270, H: 30}, geom.Point{X: 40, Y: 10}},
		"logo-img": {geom.Size{W: 30, H: 30}, geom.Point{X: 10, Y: 10}},
		"body":     {geom.Size{W: 300, H: 270}, geom.Point{X: 10, Y: 40}},
		"a":        {geom.Size{W: 300, H: 135}, geom.Point{X: 10, Y: 40}},
		"b":        {geom.Size{W: 300, H: 135}, geom.Point{X: 10, Y: 175}},
		"empty":    {geom.Size{W: 10, H: 10}, geom.Point{X: 10, Y: 10}},
	}
	for name, c := range cases {
		ref, ok := refs.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, c.size, ref.Dimensions, name)
		assert.Equal(t, c.pos, ref.Position, name)
	}
}

func TestResolveCompleteness(t *testing.T) {
	for _, size := range []int{0, 1, 5, 40} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			b := NewBuilder()
			for i := 0; i < size; i++ {
				b.Begin(fmt.Sprintf("n%d", i), WithPosition(geom.Px(1), geom.Px(1)))
				if i%3 == 0 {
					b.Add("", WithText("leaf"))
				}
			}
			for i := 0; i < size; i++ {
				require.NoError(t, b.End())
			}
			nodes, err := b.Build()
			require.NoError(t, err)

			refs, err := newTestResolver().Resolve(nodes, Anchor(200, 200))
			require.NoError(t, err)
			assert.Equal(t, len(nodes), refs.Len())
			for _, n := range nodes {
				_, ok := refs.Get(n.Name)
				assert.True(t, ok, n.Name)
			}
		})
	}
}

func TestResolveAcceptsAnyNonEmptyName(t *testing.T) {
	nodes := []Node{
		{Name: "main", Dimensions: &geom.Dimensions{W: geom.Expr("100%"), H: geom.Expr("100%")}},
		{Name: "child 1", Parent: "main", Dimensions: &geom.Dimensions{W: geom.Expr("50%"), H: geom.Px(10)}},
		{Name: "<b>&\"x\"", Parent: "child 1", Dimensions: &geom.Dimensions{W: geom.Expr("100%"), H: geom.Px(5)}},
	}
	refs, err := newTestResolver().Resolve(nodes, Anchor(200, 100))
	require.NoError(t, err)
	require.Equal(t, 3, refs.Len())

	child, ok := refs.Get("child 1")
	require.True(t, ok)
	assert.Equal(t, geom.Size{W: 100, H: 10}, child.Dimensions)
	leaf, ok := refs.Get(`<b>&"x"`)
	require.True(t, ok)
	assert.Equal(t, "child 1", leaf.Parent)
	assert.Equal(t, geom.Size{W: 100, H: 5}, leaf.Dimensions)
}

func TestResolveFlexContainerOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := newTestResolver(WithLogger(logger))

	refs, err := r.Resolve([]Node{
		{Name: "bar", Display: Absolute, Flex: FlexRow},
		{Name: "item", Parent: "bar", Flex: FlexDynamic},
	}, Anchor(100, 100))
	require.NoError(t, err)
	assert.Equal(t, 2, refs.Len())
	assert.Equal(t, []string{"bar", "item"}, refs.Names())
	assert.Equal(t, 1, strings.Count(buf.String(), "will not display"), buf.String())
}

func TestResolveDoesNotMutateNodes(t *testing.T) {
	nodes := []Node{
		{Name: "row", Flex: FlexRow, Dimensions: px(100, 10)},
		{Name: "a", Parent: "row", Flex: FlexDynamic},
	}
	before := append([]Node(nil), nodes...)
	_, err := newTestResolver().Resolve(nodes, Anchor(100, 100))
	require.NoError(t, err)
	assert.Equal(t, before, nodes)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		root  *Reference
		code  errors.Code
	}{
		{"nil root", nil, nil, errors.ErrCodeInvalidInput},
		{"parent declared later", []Node{{Name: "child", Parent: "main"}, {Name: "main"}}, Anchor(1, 1), errors.ErrCodeUnresolvedParent},
		{"item without container", []Node{{Name: "a", Flex: FlexDynamic}}, Anchor(1, 1), errors.ErrCodeInvalidFlexRole},
		{"item after closed run", []Node{
			{Name: "row", Flex: FlexRow},
			{Name: "a", Parent: "row", Flex: FlexDynamic},
			{Name: "x"},
			{Name: "b", Parent: "row", Flex: FlexDynamic},
		}, Anchor(1, 1), errors.ErrCodeInvalidFlexRole},
		{"fixed without dims", []Node{
			{Name: "row", Flex: FlexRow},
			{Name: "a", Parent: "row", Flex: FlexFixed},
		}, Anchor(1, 1), errors.ErrCodeFlexFixedDimensions},
		{"absolute without viewport", []Node{{Name: "a", Display: Absolute, Dimensions: px(1, 1)}}, Anchor(1, 1), errors.ErrCodeViewportUnset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := newTestResolver().Resolve(tt.nodes, tt.root)
			assert.Nil(t, refs)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestMapJSONKeepsOrder(t *testing.T) {
	nodes := []Node{{Name: "z"}, {Name: "a", Parent: "z"}, {Name: "m", Parent: "a"}}
	refs, err := newTestResolver().Resolve(nodes, Anchor(10, 10))
	require.NoError(t, err)

	data, err := json.Marshal(refs)
	require.NoError(t, err)

	var back Map
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"z", "a", "m"}, back.Names())
	m, _ := back.Get("m")
	assert.Equal(t, "a", m.Parent)
	assert.Len(t, refs.Children("z"), 1)
}
