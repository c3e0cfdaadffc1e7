// Package pipeline provides the load → resolve → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a layout document (JSON, TOML or YAML)
//  2. Resolve: turn the node tree into absolute references
//  3. Render: produce artifacts (SVG, PNG, JPEG, PDF, JSON, DOT)
//
// Resolve and Render results are cached by content hash, so re-rendering an
// unchanged document is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "layout.yaml",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/geom"
	lio "github.com/matzehuels/stacklayout/pkg/io"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG/JPEG pixel density multiplier.
	DefaultScale = 2.0

	// DefaultMeasurer measures text with the embedded OpenType fonts.
	DefaultMeasurer = MeasurerOpenType
)

// Measurer names.
const (
	MeasurerOpenType = "opentype"
	MeasurerApprox   = "approx"
)

// Rasterizer names. The builtin rasterizer is pure Go; rsvg shells out to
// rsvg-convert and only applies to PNG.
const (
	RasterizerBuiltin = "builtin"
	RasterizerRSVG    = "rsvg"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJPEG: true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options. Document takes precedence over Path.
	Path     string        `json:"path,omitempty"`
	Document *lio.Document `json:"-"`

	// Resolve options
	Viewport *geom.Size `json:"viewport,omitempty"` // overrides the document viewport
	Strict   bool       `json:"strict,omitempty"`
	Measurer string     `json:"measurer,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	EmbedFonts bool     `json:"embed_fonts,omitempty"`
	Rasterizer string   `json:"rasterizer,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document   *lio.Document
	DocHash    string
	References *layout.Map
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	RefCount    int
	LoadTime    time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool
	RenderHit  bool // every requested artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats sorted by name.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateMeasurer checks a measurer name.
func ValidateMeasurer(name string) error {
	switch name {
	case MeasurerOpenType, MeasurerApprox:
		return nil
	}
	return fmt.Errorf("invalid measurer: %q (must be one of: opentype, approx)", name)
}

// ValidateRasterizer checks a rasterizer name. Empty selects the builtin.
func ValidateRasterizer(name string) error {
	switch name {
	case "", RasterizerBuiltin, RasterizerRSVG:
		return nil
	}
	return fmt.Errorf("invalid rasterizer: %q (must be one of: builtin, rsvg)", name)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Document == nil && o.Path == "" {
		return fmt.Errorf("document or path is required")
	}
	if o.Viewport != nil && (o.Viewport.W <= 0 || o.Viewport.H <= 0) {
		return fmt.Errorf("viewport must be positive, got %s", o.Viewport)
	}
	o.SetResolveDefaults()
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateRasterizer(o.Rasterizer); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// SetResolveDefaults sets default values for resolution.
func (o *Options) SetResolveDefaults() {
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Rasterizer == "" {
		o.Rasterizer = RasterizerBuiltin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResolveKeyOpts returns cache key options for resolution against anchor.
func (o *Options) ResolveKeyOpts(anchor geom.Size, viewport *geom.Size) cache.ResolveKeyOpts {
	k := cache.ResolveKeyOpts{
		AnchorW:  anchor.W,
		AnchorH:  anchor.H,
		Strict:   o.Strict,
		Measurer: o.Measurer,
	}
	if viewport != nil {
		k.ViewportW, k.ViewportH = viewport.W, viewport.H
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Background: o.Background}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
		if o.Rasterizer == RasterizerRSVG {
			k.Rasterizer = RasterizerRSVG
		}
	case FormatJPEG:
		k.Scale = o.Scale
	case FormatSVG:
		k.EmbedFonts = o.EmbedFonts
	}
	return k
}
