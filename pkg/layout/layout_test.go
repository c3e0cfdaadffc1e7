package layout

import (
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/style"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// fakeMeasurer measures one pixel per byte and two pixels of height.
var fakeMeasurer = text.MeasureFunc(func(content string, _ style.Style) (geom.Size, error) {
	return geom.Size{W: float64(len(content)), H: 2}, nil
})

func newTestResolver(opts ...Option) *Resolver {
	return New(append([]Option{WithMeasurer(fakeMeasurer)}, opts...)...)
}

func px(w, h float64) *geom.Dimensions {
	return &geom.Dimensions{W: geom.Px(w), H: geom.Px(h)}
}

func at(x, y float64) *geom.Position {
	return &geom.Position{X: geom.Px(x), Y: geom.Px(y)}
}

func sym(x, y string) *geom.Position {
	return &geom.Position{X: geom.ParseValue(x), Y: geom.ParseValue(y)}
}

func dims(w, h string) *geom.Dimensions {
	return &geom.Dimensions{W: geom.ParseValue(w), H: geom.ParseValue(h)}
}
