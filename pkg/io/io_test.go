package io

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/text"
)

const jsonDoc = `{
  "viewport": {"w": 800, "h": 600},
  "styles": {"title": {"font": "Go Bold", "size": 24}},
  "nodes": [
    {
      "name": "main",
      "dimensions": {"w": "100%", "h": "100%"},
      "padding": {"t": 10, "r": 10, "b": 10, "l": 10},
      "children": [
        {"name": "bar", "flex": "row", "dimensions": {"w": "100%", "h": 40}, "children": [
          {"name": "icon", "flex": "fixed", "dimensions": {"w": 40, "h": 40}},
          {"name": "title", "flex": "dynamic", "text": "Hello", "text_style": "title"}
        ]},
        {"name": "hud", "display": "absolute", "position": {"x": "center", "y": 0}, "dimensions": {"w": 100, "h": 20}}
      ]
    }
  ]
}`

const tomlDoc = `
viewport = { w = 800, h = 600 }

[styles.title]
font = "Go Bold"
size = 24

[[nodes]]
name = "main"
dimensions = { w = "100%", h = "100%" }
padding = { t = 10, r = 10, b = 10, l = 10 }

  [[nodes.children]]
  name = "bar"
  flex = "row"
  dimensions = { w = "100%", h = 40 }

    [[nodes.children.children]]
    name = "icon"
    flex = "fixed"
    dimensions = { w = 40, h = 40 }

    [[nodes.children.children]]
    name = "title"
    flex = "dynamic"
    text = "Hello"
    text_style = "title"

  [[nodes.children]]
  name = "hud"
  display = "absolute"
  position = { x = "center", y = 0 }
  dimensions = { w = 100, h = 20 }
`

const yamlDoc = `
viewport: {w: 800, h: 600}
styles:
  title: {font: Go Bold, size: 24}
nodes:
  - name: main
    dimensions: {w: 100%, h: 100%}
    padding: {t: 10, r: 10, b: 10, l: 10}
    children:
      - name: bar
        flex: row
        dimensions: {w: 100%, h: 40}
        children:
          - {name: icon, flex: fixed, dimensions: {w: 40, h: 40}}
          - {name: title, flex: dynamic, text: Hello, text_style: title}
      - name: hud
        display: absolute
        position: {x: center, y: 0}
        dimensions: {w: 100, h: 20}
`

func TestReadDocumentFormats(t *testing.T) {
	sources := map[Format]string{FormatJSON: jsonDoc, FormatTOML: tomlDoc, FormatYAML: yamlDoc}

	var want []layout.Node
	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			doc, err := ParseDocument([]byte(sources[format]), format)
			require.NoError(t, err)
			require.Equal(t, &geom.Size{W: 800, H: 600}, doc.Viewport)

			nodes := doc.Nodes()
			names := make([]string, len(nodes))
			for i, n := range nodes {
				names[i] = n.Name
			}
			assert.Equal(t, []string{"main", "bar", "icon", "title", "hud"}, names)
			assert.Equal(t, "bar", nodes[3].Parent)
			assert.Equal(t, layout.FlexDynamic, nodes[3].Flex)
			assert.Equal(t, layout.Absolute, nodes[4].Display)
			assert.Equal(t, "100%", nodes[0].Dimensions.W.Expression())

			if want == nil {
				want = nodes
			} else {
				assert.Equal(t, want, nodes)
			}

			reg, err := doc.Registry()
			require.NoError(t, err)
			title, err := reg.Lookup("title")
			require.NoError(t, err)
			assert.Equal(t, "Go Bold", title.Font)
			assert.Equal(t, 24.0, title.Size)
			assert.Equal(t, "#000000", title.Color)
		})
	}
}

func TestDocumentResolves(t *testing.T) {
	doc, err := ParseDocument([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	opts, err := doc.ResolverOptions()
	require.NoError(t, err)
	anchor, err := doc.Anchor()
	require.NoError(t, err)

	r := layout.New(append(opts, layout.WithMeasurer(text.Approx{}))...)
	refs, err := r.Resolve(doc.Nodes(), anchor)
	require.NoError(t, err)
	assert.Equal(t, 5, refs.Len())

	title, _ := refs.Get("title")
	assert.Equal(t, geom.Size{W: 740, H: 40}, title.Dimensions)
	assert.Equal(t, geom.Point{X: 50, Y: 10}, title.Position)
	hud, _ := refs.Get("hud")
	assert.Equal(t, geom.Point{X: 350, Y: 0}, hud.Position)
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	doc, err := ParseDocument([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDocument(doc, &buf, format))
			back, err := ReadDocument(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, doc.Nodes(), back.Nodes())
			assert.Equal(t, doc.Viewport, back.Viewport)
		})
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"bad json", `{"nodes": [`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown json field", `{"nodes": [], "bogus": 1}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"bad display", `{"nodes": [{"name": "a", "display": "sticky"}]}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown toml key", "colour = 1\n", FormatTOML, errors.ErrCodeInvalidInput},
		{"unknown yaml field", "nodez: []\n", FormatYAML, errors.ErrCodeInvalidInput},
		{"bad format", "{}", Format("xml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data), tt.format)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.json", FormatJSON, true},
		{"dir/a.TOML", FormatTOML, true},
		{"a.yml", FormatYAML, true},
		{"a.yaml", FormatYAML, true},
		{"a.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestImportDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	doc, err := ImportDocument(path)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes(), 5)

	_, err = ImportDocument(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestReferencesRoundTrip(t *testing.T) {
	nodes := []layout.Node{
		{Name: "main", Dimensions: &geom.Dimensions{W: geom.Px(100), H: geom.Px(50)}, Fill: "#fff"},
		{Name: "label", Parent: "main", Text: "hey"},
	}
	refs, err := layout.New(layout.WithMeasurer(text.Approx{})).Resolve(nodes, layout.Anchor(100, 100))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "refs.json")
	require.NoError(t, ExportReferences(refs, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := ReadReferences(f)
	require.NoError(t, err)

	assert.Equal(t, refs.Names(), back.Names())
	orig, _ := refs.Get("label")
	got, _ := back.Get("label")
	assert.Equal(t, orig, got)
}

func TestStyleSpecDefaults(t *testing.T) {
	s := StyleSpec{Color: "#f00"}.Style()
	assert.Equal(t, "#f00", s.Color)
	assert.Equal(t, "Go", s.Font)
	assert.Equal(t, 16.0, s.Size)
	assert.Equal(t, "center", s.Position.X.Expression())
}

func TestDocumentAnchor(t *testing.T) {
	_, err := (&Document{}).Anchor()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	a, err := (&Document{Viewport: &geom.Size{W: 1, H: 2}, Root: &geom.Size{W: 3, H: 4}}).Anchor()
	require.NoError(t, err)
	assert.Equal(t, geom.Size{W: 3, H: 4}, a.Dimensions)
}
