// Package expr turns raw, possibly symbolic geometry into concrete pixels.
//
// A symbolic value is evaluated against a reference box:
//
//	"100%"   -> round(reference)
//	"50%"    -> round(reference) / 2
//	"center" -> round(reference)/2 - round(own extent)/2
//
// Only the magnitudes are rounded (half-up), before the arithmetic, so
// results may be fractional. For dimensions the own extent is 0. Concrete
// values pass through untouched. Tokens outside that vocabulary evaluate to 0 unless the
// Evaluator is strict, in which case they are reported as
// UNRECOGNIZED_EXPRESSION errors.
package expr

import (
	"math"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

// Symbolic tokens understood by the evaluator.
const (
	Full   = "100%"
	Half   = "50%"
	Center = "center"
)

// Evaluator resolves symbolic geometry. The zero value is lenient.
type Evaluator struct {
	// Strict rejects unknown tokens instead of evaluating them to 0.
	Strict bool
}

// Dimensions resolves d against the reference size ref.
func (e Evaluator) Dimensions(d geom.Dimensions, ref geom.Size) (geom.Size, error) {
	if !d.HasExpressions() {
		s, _ := d.Concrete()
		return s, nil
	}
	if err := finite("reference", ref); err != nil {
		return geom.Size{}, err
	}
	w, err := e.extent(d.W, ref.W)
	if err != nil {
		return geom.Size{}, err
	}
	h, err := e.extent(d.H, ref.H)
	if err != nil {
		return geom.Size{}, err
	}
	return geom.Size{W: w, H: h}, nil
}

// Position resolves p against the reference size ref, with self being the
// already resolved size of the positioned box.
func (e Evaluator) Position(p geom.Position, self, ref geom.Size) (geom.Point, error) {
	if !p.HasExpressions() {
		x, _ := p.X.Float()
		y, _ := p.Y.Float()
		return geom.Point{X: x, Y: y}, nil
	}
	if err := finite("reference", ref); err != nil {
		return geom.Point{}, err
	}
	if err := finite("self", self); err != nil {
		return geom.Point{}, err
	}
	x, err := e.offset(p.X, self.W, ref.W)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := e.offset(p.Y, self.H, ref.H)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

func (e Evaluator) extent(v geom.Value, ref float64) (float64, error) {
	return e.offset(v, 0, ref)
}

func (e Evaluator) offset(v geom.Value, self, ref float64) (float64, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}
	base, own := Round(ref), Round(self)
	switch v.Expression() {
	case Full:
		return base, nil
	case Half:
		return base / 2, nil
	case Center:
		return base/2 - own/2, nil
	}
	return e.unknown(v)
}

func (e Evaluator) unknown(v geom.Value) (float64, error) {
	if e.Strict {
		return 0, errors.New(errors.ErrCodeUnrecognizedExpression, "unrecognized expression %q", v.Expression())
	}
	return 0, nil
}

func finite(what string, s geom.Size) error {
	if isFinite(s.W) && isFinite(s.H) {
		return nil
	}
	return errors.New(errors.ErrCodeUnresolvedParent, "%s box has unresolved dimensions %v", what, s)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Round rounds half-up: 2.5 becomes 3 and -2.5 becomes -2.
func Round(f float64) float64 { return math.Floor(f + 0.5) }

// Dimensions resolves d with a lenient evaluator.
func Dimensions(d geom.Dimensions, ref geom.Size) (geom.Size, error) {
	return Evaluator{}.Dimensions(d, ref)
}

// Position resolves p with a lenient evaluator.
func Position(p geom.Position, self, ref geom.Size) (geom.Point, error) {
	return Evaluator{}.Position(p, self, ref)
}
