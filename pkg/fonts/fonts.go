// Package fonts provides embedded font files for measurement and rendering.
//
// The Go font family ships with golang.org/x/image and is compiled into the
// binary, so text layout never depends on fonts installed on the host.
// Families are looked up case-insensitively; common generic CSS names map
// onto the closest Go face.
package fonts

import (
	"encoding/base64"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Default is the family used when a style names none.
const Default = "Go"

// Family is an embedded font face.
type Family struct {
	Name string // canonical family name
	CSS  string // font-family value for SVG output
	TTF  []byte
}

var families = map[string]Family{
	"go":           {Name: "Go", CSS: `'Go', sans-serif`, TTF: goregular.TTF},
	"go bold":      {Name: "Go Bold", CSS: `'Go Bold', 'Go', sans-serif`, TTF: gobold.TTF},
	"go italic":    {Name: "Go Italic", CSS: `'Go Italic', 'Go', sans-serif`, TTF: goitalic.TTF},
	"go medium":    {Name: "Go Medium", CSS: `'Go Medium', 'Go', sans-serif`, TTF: gomedium.TTF},
	"go mono":      {Name: "Go Mono", CSS: `'Go Mono', monospace`, TTF: gomono.TTF},
	"go mono bold": {Name: "Go Mono Bold", CSS: `'Go Mono Bold', 'Go Mono', monospace`, TTF: gomonobold.TTF},
}

var aliases = map[string]string{
	"":           "go",
	"sans-serif": "go",
	"sans":       "go",
	"monospace":  "go mono",
	"mono":       "go mono",
}

// Lookup returns the family registered under name.
func Lookup(name string) (Family, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	f, ok := families[key]
	return f, ok
}

// Names lists the canonical family names in sorted order.
func Names() []string {
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}

// Cache for base64-encoded fonts (computed once per family).
var encoded sync.Map

// Base64 returns the TTF data of a family as a base64 string, suitable for
// an SVG @font-face data URI. The result is cached after first computation.
func Base64(f Family) string {
	if v, ok := encoded.Load(f.Name); ok {
		return v.(string)
	}
	s := base64.StdEncoding.EncodeToString(f.TTF)
	encoded.Store(f.Name, s)
	return s
}
