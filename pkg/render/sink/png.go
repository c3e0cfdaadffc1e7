package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/fonts"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/render"
	"github.com/matzehuels/stacklayout/pkg/text"
)

// maxRasterDim caps either side of a raster so a huge viewport cannot
// allocate an enormous buffer.
var maxRasterDim = 8192

// PNGOption configures raster rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	rsvg    bool
	quality int
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the raster scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithRSVG rasterizes through rsvg-convert instead of the built-in
// rasterizer. PNG only.
func WithRSVG() PNGOption { return func(r *pngRenderer) { r.rsvg = true } }

// WithJPEGQuality sets the JPEG quality (1-100, default 90).
func WithJPEGQuality(q int) PNGOption { return func(r *pngRenderer) { r.quality = q } }

func newPNGRenderer(opts ...PNGOption) pngRenderer {
	r := pngRenderer{scale: 2.0, quality: 90}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		r.scale = 1
	}
	return r
}

// RenderPNG renders refs as PNG.
func RenderPNG(refs *layout.Map, opts ...PNGOption) ([]byte, error) {
	r := newPNGRenderer(opts...)
	if r.rsvg {
		return render.ToPNG(RenderSVG(refs, r.svgOpts...), r.scale)
	}
	img, err := r.rasterize(refs)
	if err != nil {
		return nil, err
	}
	return encode(img, "png", imaging.PNG)
}

// RenderJPEG renders refs as JPEG.
func RenderJPEG(refs *layout.Map, opts ...PNGOption) ([]byte, error) {
	r := newPNGRenderer(opts...)
	img, err := r.rasterize(refs)
	if err != nil {
		return nil, err
	}
	return encode(img, "jpeg", imaging.JPEG, imaging.JPEGQuality(r.quality))
}

// RenderImage rasterizes refs into an image.
func RenderImage(refs *layout.Map, opts ...PNGOption) (image.Image, error) {
	r := newPNGRenderer(opts...)
	return r.rasterize(refs)
}

func encode(img image.Image, name string, format imaging.Format, opts ...imaging.EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", name)
	}
	return buf.Bytes(), nil
}

// rasterize draws boxes through oksvg and text with the embedded fonts;
// oksvg does not render <text> elements.
func (r *pngRenderer) rasterize(refs *layout.Map) (image.Image, error) {
	sr := newSVGRenderer(r.svgOpts...)
	svgOpts := append(append([]SVGOption(nil), r.svgOpts...), withoutText(), WithFaces(sr.faces))
	svg := RenderSVG(refs, svgOpts...)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse svg")
	}

	w := max(int(math.Ceil(icon.ViewBox.W*r.scale)), 1)
	h := max(int(math.Ceil(icon.ViewBox.H*r.scale)), 1)
	scale := r.scale
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
		scale *= s
	}
	icon.SetTarget(0, 0, icon.ViewBox.W*scale, icon.ViewBox.H*scale)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	for _, ref := range refs.All() {
		if ref.Text == nil {
			continue
		}
		if err := drawText(dst, sr.faces, ref.Text, scale); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func drawText(dst draw.Image, faces *text.OpenType, t *layout.TextReference, scale float64) error {
	family, ok := fonts.Lookup(t.Style.Font)
	if !ok {
		family, _ = fonts.Lookup(fonts.Default)
	}
	var col color.Color = color.Black
	if t.Style.Color != "" {
		if c, err := oksvg.ParseSVGColor(t.Style.Color); err == nil && c != nil {
			col = c
		}
	}
	return faces.Draw(family.Name, t.Style.Size*scale, func(face font.Face) error {
		m := face.Metrics()
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
		for i, line := range strings.Split(t.Content, "\n") {
			x := t.Position.X * scale
			y := t.Position.Y*scale + float64(m.Ascent)/64 + float64(i)*float64(m.Height)/64
			d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
			d.DrawString(line)
		}
		return nil
	})
}
