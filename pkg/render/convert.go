package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// rsvgBinary is the converter looked up on PATH; tests point it elsewhere.
var rsvgBinary = "rsvg-convert"

// convertTimeout bounds a single rsvg-convert run.
const convertTimeout = 30 * time.Second

// ToPDF converts an SVG document to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts an SVG document to PNG with rsvg-convert, zoomed by scale.
// The sink package rasterizes in pure Go; this path renders SVG text
// exactly as librsvg does.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// HasRSVG reports whether rsvg-convert is on PATH.
func HasRSVG() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

func rsvgConvert(svg []byte, format string, args ...string) ([]byte, error) {
	if !HasRSVG() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs rsvg-convert (macOS: brew install librsvg, Debian/Ubuntu: apt install librsvg2-bin)", format)
	}

	ctx, cancel := context.WithTimeout(context.Background(), convertTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rsvgBinary, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert %s: %s", format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
