package sink

import (
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/render"
)

// PDFOption configures [RenderPDF].
type PDFOption func(*[]SVGOption)

// WithPDFSVGOptions forwards options to the intermediate SVG.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(svgOpts *[]SVGOption) { *svgOpts = append(*svgOpts, opts...) }
}

// RenderPDF draws refs as SVG with the used fonts embedded, then converts it
// with rsvg-convert. Without the binary it fails with UNSUPPORTED.
func RenderPDF(refs *layout.Map, opts ...PDFOption) ([]byte, error) {
	var svgOpts []SVGOption
	for _, opt := range opts {
		opt(&svgOpts)
	}
	return render.ToPDF(RenderSVG(refs, append(svgOpts, WithEmbeddedFonts())...))
}
