package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/render/sink"
	"github.com/matzehuels/stacklayout/pkg/render/tree"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// Canvas describes the drawing surface for a render.
type Canvas struct {
	Size     geom.Size
	Viewport *geom.Size
}

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, refs *layout.Map, canvas Canvas, opts Options, faces *text.OpenType) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if faces == nil {
		faces = text.NewOpenType()
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	out := make([][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(refs, format, canvas, opts, faces)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			out[i] = data
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

func renderFormat(refs *layout.Map, format string, canvas Canvas, opts Options, faces *text.OpenType) ([]byte, error) {
	svgOpts := buildSVGOptions(canvas, opts, faces)

	switch format {
	case FormatSVG:
		return sink.RenderSVG(refs, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale)}
		if opts.Rasterizer == RasterizerRSVG {
			pngOpts = append(pngOpts, sink.WithRSVG())
		}
		return sink.RenderPNG(refs, pngOpts...)
	case FormatJPEG:
		return sink.RenderJPEG(refs, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(refs, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		jopts := []sink.JSONOption{sink.WithJSONCanvas(canvas.Size.W, canvas.Size.H)}
		if canvas.Viewport != nil {
			jopts = append(jopts, sink.WithJSONViewport(canvas.Viewport.W, canvas.Viewport.H))
		}
		return sink.RenderJSON(refs, jopts...)
	case FormatDOT:
		return []byte(tree.ToDOT(refs, tree.Options{Detailed: true})), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func buildSVGOptions(canvas Canvas, opts Options, faces *text.OpenType) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFaces(faces)}
	if canvas.Size.W > 0 && canvas.Size.H > 0 {
		svgOpts = append(svgOpts, sink.WithCanvas(canvas.Size.W, canvas.Size.H))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.EmbedFonts {
		svgOpts = append(svgOpts, sink.WithEmbeddedFonts())
	}
	return svgOpts
}
