package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

func TestResolveFlexRow(t *testing.T) {
	r := newTestResolver()
	parent := Node{Name: "main", Flex: FlexRow, Dimensions: px(500, 100)}
	items := []Node{
		{Name: "fixed", Parent: "main", Flex: FlexFixed, Dimensions: px(100, 100)},
		{Name: "dynamic", Parent: "main", Flex: FlexDynamic},
	}

	refs, err := r.ResolveFlex(Anchor(500, 500), parent, items)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "main", refs[0].Name)

	assert.Equal(t, geom.Size{W: 100, H: 100}, refs[1].Dimensions)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, refs[1].Position)
	assert.Equal(t, geom.Size{W: 400, H: 100}, refs[2].Dimensions)
	assert.Equal(t, geom.Point{X: 100, Y: 0}, refs[2].Position)
}

func TestResolveFlexCol(t *testing.T) {
	r := newTestResolver()
	parent := Node{Name: "side", Flex: FlexCol, Dimensions: px(100, 300), Position: at(10, 20)}
	items := []Node{
		{Name: "header", Flex: FlexFixed, Dimensions: px(100, 50)},
		{Name: "a", Flex: FlexDynamic},
		{Name: "b", Flex: FlexDynamic},
	}

	refs, err := r.ResolveFlex(Anchor(500, 500), parent, items)
	require.NoError(t, err)
	require.Len(t, refs, 4)

	want := []struct {
		size geom.Size
		pos  geom.Point
	}{
		{geom.Size{W: 100, H: 50}, geom.Point{X: 10, Y: 20}},
		{geom.Size{W: 100, H: 125}, geom.Point{X: 10, Y: 70}},
		{geom.Size{W: 100, H: 125}, geom.Point{X: 10, Y: 195}},
	}
	for i, w := range want {
		assert.Equal(t, w.size, refs[i+1].Dimensions, refs[i+1].Name)
		assert.Equal(t, w.pos, refs[i+1].Position, refs[i+1].Name)
	}
}

func TestResolveFlexTiles(t *testing.T) {
	r := newTestResolver()
	parent := Node{Name: "bar", Flex: FlexRow, Dimensions: px(600, 40)}
	items := []Node{
		{Name: "a", Flex: FlexDynamic},
		{Name: "b", Flex: FlexFixed, Dimensions: px(50, 40)},
		{Name: "c", Flex: FlexDynamic},
		{Name: "d", Flex: FlexFixed, Dimensions: px(100, 40)},
		{Name: "e", Flex: FlexDynamic},
	}
	refs, err := r.ResolveFlex(Anchor(600, 480), parent, items)
	require.NoError(t, err)

	next := 0.0
	for _, ref := range refs[1:] {
		assert.Equal(t, next, ref.Position.X, "item %s starts where the previous one ends", ref.Name)
		next += ref.Dimensions.W
		if ref.Flex == FlexDynamic {
			assert.Equal(t, 150.0, ref.Dimensions.W)
		}
	}
	assert.Equal(t, 600.0, next)
}

func TestResolveFlexPaddingAndCrossAxis(t *testing.T) {
	r := newTestResolver()
	pad := geom.EdgeAll(5)
	parent := Node{Name: "row", Flex: FlexRow, Dimensions: px(110, 50), Padding: &pad}
	items := []Node{
		{Name: "a", Flex: FlexFixed, Dimensions: px(20, 10), Position: sym("0", "center")},
		{Name: "b", Flex: FlexDynamic},
	}
	refs, err := r.ResolveFlex(Anchor(200, 200), parent, items)
	require.NoError(t, err)

	// Items live in the 100x40 content box starting at (5,5).
	assert.Equal(t, geom.Point{X: 5, Y: 20}, refs[1].Position)
	assert.Equal(t, geom.Size{W: 80, H: 40}, refs[2].Dimensions)
	assert.Equal(t, geom.Point{X: 25, Y: 5}, refs[2].Position)
}

func TestResolveFlexDoesNotMutate(t *testing.T) {
	r := newTestResolver()
	parent := Node{Name: "row", Flex: FlexRow, Dimensions: px(100, 10)}
	items := []Node{{Name: "a", Flex: FlexDynamic}, {Name: "b", Flex: FlexFixed, Dimensions: px(10, 10)}}
	before := append([]Node(nil), items...)

	_, err := r.ResolveFlex(Anchor(100, 100), parent, items)
	require.NoError(t, err)
	assert.Equal(t, before, items)
	assert.Nil(t, items[0].Dimensions)
	assert.Nil(t, items[0].Position)
}

func TestResolveFlexOnlyFixed(t *testing.T) {
	r := newTestResolver()
	refs, err := r.ResolveFlex(Anchor(100, 100), Node{Name: "row", Flex: FlexRow, Dimensions: px(100, 10)},
		[]Node{{Name: "a", Flex: FlexFixed, Dimensions: px(30, 10)}})
	require.NoError(t, err)
	assert.Equal(t, geom.Size{W: 30, H: 10}, refs[1].Dimensions)
}

func TestResolveFlexOverflow(t *testing.T) {
	r := newTestResolver()
	refs, err := r.ResolveFlex(Anchor(100, 100), Node{Name: "row", Flex: FlexRow, Dimensions: px(100, 10)},
		[]Node{
			{Name: "a", Flex: FlexFixed, Dimensions: px(80, 10)},
			{Name: "b", Flex: FlexFixed, Dimensions: px(50, 10)},
			{Name: "c", Flex: FlexDynamic},
		})
	require.NoError(t, err)
	require.Len(t, refs, 4)
	assert.Equal(t, geom.Point{X: 80, Y: 0}, refs[2].Position, "fixed items keep their size past the edge")
	assert.Equal(t, geom.Size{W: 0, H: 10}, refs[3].Dimensions)
	assert.Equal(t, geom.Point{X: 130, Y: 0}, refs[3].Position)
}

func TestResolveFlexErrors(t *testing.T) {
	r := newTestResolver()
	row := Node{Name: "row", Flex: FlexRow, Dimensions: px(100, 10)}
	tests := []struct {
		name   string
		parent Node
		items  []Node
		code   errors.Code
	}{
		{"fixed without dims", row, []Node{{Name: "a", Flex: FlexFixed}}, errors.ErrCodeFlexFixedDimensions},
		{"fixed with symbolic dims", row, []Node{{Name: "a", Flex: FlexFixed, Dimensions: dims("50%", "10")}}, errors.ErrCodeFlexFixedDimensions},
		{"item without role", row, []Node{{Name: "a"}}, errors.ErrCodeInvalidFlexRole},
		{"item with container role", row, []Node{{Name: "a", Flex: FlexCol}}, errors.ErrCodeInvalidFlexRole},
		{"parent not a container", Node{Name: "p"}, nil, errors.ErrCodeInvalidFlexRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveFlex(Anchor(100, 100), tt.parent, tt.items)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}
