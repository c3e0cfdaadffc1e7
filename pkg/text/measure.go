// Package text measures text runs for layout.
//
// Two measurers are provided. [OpenType] lays text out with the embedded Go
// fonts and is what the resolver uses by default. [Approx] estimates from
// terminal cell widths and needs no font data, which makes it handy for
// tests and quick previews.
//
// Content is split on newlines; width is the widest line and height is the
// line count times the line height.
package text

import (
	"math"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/fonts"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/style"
)

// Measurer reports the box a piece of text occupies when set in a style.
type Measurer interface {
	Measure(content string, s style.Style) (geom.Size, error)
}

// DPI at which faces are rasterized. At 72 DPI one point is one pixel, so
// style sizes are pixel sizes.
const DPI = 72

type faceKey struct {
	family string
	size   float64
}

// OpenType measures text with parsed OpenType faces. Parsed fonts and faces
// are cached; an OpenType is safe for concurrent use.
type OpenType struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewOpenType returns an empty measurer; fonts are parsed on first use.
func NewOpenType() *OpenType {
	return &OpenType{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Measure implements [Measurer].
func (m *OpenType) Measure(content string, s style.Style) (geom.Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.faceLocked(s.Font, s.Size)
	if err != nil {
		return geom.Size{}, err
	}
	lines := strings.Split(content, "\n")
	var width fixed.Int26_6
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line))
	}
	lineHeight := toFloat(face.Metrics().Height)
	return geom.Size{W: toFloat(width), H: lineHeight * float64(len(lines))}, nil
}

// LineMetrics returns the ascent and line height of a face, the values
// needed to place baselines of measured text.
func (m *OpenType) LineMetrics(family string, size float64) (ascent, lineHeight float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(family, size)
	if err != nil {
		return 0, 0, err
	}
	metrics := face.Metrics()
	return toFloat(metrics.Ascent), toFloat(metrics.Height), nil
}

// Draw runs fn with the face for family and size while holding the cache
// lock. Faces are not safe for concurrent use, so callers that draw glyphs
// go through here.
func (m *OpenType) Draw(family string, size float64, fn func(font.Face) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(family, size)
	if err != nil {
		return err
	}
	return fn(face)
}

func (m *OpenType) faceLocked(family string, size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "font size must be positive, got %g", size)
	}
	fam, ok := fonts.Lookup(family)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown font family %q", family)
	}
	key := faceKey{family: fam.Name, size: size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	f, ok := m.fonts[fam.Name]
	if !ok {
		var err error
		if f, err = opentype.Parse(fam.TTF); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font %q", fam.Name)
		}
		m.fonts[fam.Name] = f
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: DPI, Hinting: font.HintingNone})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create face %q at %g", fam.Name, size)
	}
	m.faces[key] = face
	return face, nil
}

// Close releases cached faces.
func (m *OpenType) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, face := range m.faces {
		face.Close()
		delete(m.faces, k)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// DefaultCharRatio is the advance of one terminal cell relative to the font
// size, typical for proportional sans-serif faces.
const DefaultCharRatio = 0.6

// Approx estimates text size from display cell counts. Wide runes (CJK,
// emoji) count as two cells. The zero value uses [DefaultCharRatio].
type Approx struct {
	CharRatio float64
}

// Measure implements [Measurer].
func (a Approx) Measure(content string, s style.Style) (geom.Size, error) {
	if s.Size <= 0 {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidStyle, "font size must be positive, got %g", s.Size)
	}
	ratio := a.CharRatio
	if ratio <= 0 {
		ratio = DefaultCharRatio
	}
	lines := strings.Split(content, "\n")
	cells := 0
	for _, line := range lines {
		cells = max(cells, runewidth.StringWidth(line))
	}
	return geom.Size{W: float64(cells) * s.Size * ratio, H: float64(len(lines)) * s.Size}, nil
}

// MeasureFunc adapts a function to [Measurer].
type MeasureFunc func(content string, s style.Style) (geom.Size, error)

// Measure implements [Measurer].
func (f MeasureFunc) Measure(content string, s style.Style) (geom.Size, error) {
	return f(content, s)
}
