package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/expr"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/style"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// StyleLookup resolves a style name. The empty name selects the default.
// *style.Registry satisfies it.
type StyleLookup interface {
	Lookup(name string) (style.Style, error)
}

// Resolver turns nodes into references. It holds read-only configuration
// only, so one Resolver may serve concurrent Resolve calls as long as its
// StyleLookup and Measurer are safe for concurrent use.
type Resolver struct {
	viewport *geom.Size
	styles   StyleLookup
	measurer text.Measurer
	logger   *log.Logger
	eval     expr.Evaluator
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithViewport sets the box Absolute nodes resolve against. Without it,
// resolving an Absolute node with authored geometry fails with
// VIEWPORT_UNSET.
func WithViewport(w, h float64) Option {
	return func(r *Resolver) { r.viewport = &geom.Size{W: w, H: h} }
}

// WithStyles sets the style lookup used for text nodes.
func WithStyles(s StyleLookup) Option {
	return func(r *Resolver) {
		if s != nil {
			r.styles = s
		}
	}
}

// WithMeasurer sets the text measurer.
func WithMeasurer(m text.Measurer) Option {
	return func(r *Resolver) {
		if m != nil {
			r.measurer = m
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStrictExpressions makes unknown expression tokens an error instead of
// evaluating them to 0.
func WithStrictExpressions() Option {
	return func(r *Resolver) { r.eval.Strict = true }
}

// New returns a Resolver. By default it has no viewport, uses a fresh style
// registry, measures with embedded OpenType fonts and discards logs.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		styles:   style.NewRegistry(),
		measurer: text.NewOpenType(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Viewport returns the configured viewport and whether one is set.
func (r *Resolver) Viewport() (geom.Size, bool) {
	if r.viewport == nil {
		return geom.Size{}, false
	}
	return *r.viewport, true
}

func (r *Resolver) requireViewport(name string) (geom.Size, error) {
	if r.viewport == nil {
		return geom.Size{}, errors.New(errors.ErrCodeViewportUnset, "absolute node %q needs a viewport", name)
	}
	return *r.viewport, nil
}
