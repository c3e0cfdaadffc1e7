package sink

import (
	"encoding/json"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	canvas   *geom.Size
	viewport *geom.Size
}

// WithJSONCanvas records the canvas size instead of the computed bounds.
func WithJSONCanvas(w, h float64) JSONOption {
	return func(r *jsonRenderer) { r.canvas = &geom.Size{W: w, H: h} }
}

// WithJSONViewport records the viewport the layout was resolved against.
func WithJSONViewport(w, h float64) JSONOption {
	return func(r *jsonRenderer) { r.viewport = &geom.Size{W: w, H: h} }
}

type jsonOutput struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Viewport   *geom.Size  `json:"viewport,omitempty"`
	References *layout.Map `json:"references"`
}

// RenderJSON exports the resolved references with the canvas size as a
// pretty-printed JSON document. References keep their resolution order.
func RenderJSON(refs *layout.Map, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	canvas := Bounds(refs)
	if r.canvas != nil {
		canvas = *r.canvas
	}
	out := jsonOutput{Width: canvas.W, Height: canvas.H, Viewport: r.viewport, References: refs}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}
