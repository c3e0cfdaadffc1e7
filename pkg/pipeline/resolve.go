package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/stacklayout/pkg/geom"
	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// anchor is the box a document resolves against and the viewport in effect.
type anchor struct {
	root     *layout.Reference
	viewport *geom.Size
}

// resolveAnchor applies the viewport override: it replaces the document
// viewport, and becomes the root when the document names no root.
func resolveAnchor(doc *lio.Document, opts Options) (anchor, error) {
	viewport := doc.Viewport
	if opts.Viewport != nil {
		viewport = opts.Viewport
	}
	d := *doc
	d.Viewport = viewport
	root, err := d.Anchor()
	if err != nil {
		return anchor{}, err
	}
	return anchor{root: root, viewport: viewport}, nil
}

// Resolve resolves doc with the settings in opts. faces is used when
// opts.Measurer selects OpenType measurement; nil creates a fresh measurer.
func Resolve(ctx context.Context, doc *lio.Document, opts Options, faces *text.OpenType) (*layout.Map, error) {
	opts.SetResolveDefaults()
	a, err := resolveAnchor(doc, opts)
	if err != nil {
		return nil, err
	}

	ropts, err := doc.ResolverOptions()
	if err != nil {
		return nil, err
	}
	if a.viewport != nil {
		ropts = append(ropts, layout.WithViewport(a.viewport.W, a.viewport.H))
	}
	ropts = append(ropts, layout.WithLogger(opts.Logger), layout.WithMeasurer(measurer(opts.Measurer, faces)))
	if opts.Strict {
		ropts = append(ropts, layout.WithStrictExpressions())
	}

	nodes := doc.Nodes()
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, len(nodes))
	start := time.Now()

	refs, err := layout.New(ropts...).Resolve(nodes, a.root)
	count := 0
	if refs != nil {
		count = refs.Len()
	}
	hooks.OnResolveComplete(ctx, count, time.Since(start), err)
	return refs, err
}

func measurer(name string, faces *text.OpenType) text.Measurer {
	if name == MeasurerApprox {
		return text.Approx{}
	}
	if faces == nil {
		return text.NewOpenType()
	}
	return faces
}
