package layout

import (
	"encoding/json"
	"iter"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/style"
)

// Reference is the resolved, pixel-concrete box of one node. Positions are
// absolute. Styling fields are carried through from the node.
type Reference struct {
	Name       string         `json:"name"`
	Parent     string         `json:"parent,omitempty"`
	Display    Display        `json:"display"`
	Flex       FlexRole       `json:"flex,omitempty"`
	Dimensions geom.Size      `json:"dimensions"`
	Position   geom.Point     `json:"position"`
	Fill       string         `json:"fill,omitempty"`
	Border     *geom.Border   `json:"border,omitempty"`
	Padding    *geom.Edges    `json:"padding,omitempty"`
	Text       *TextReference `json:"text,omitempty"`
}

// TextReference is the resolved text payload of a node.
type TextReference struct {
	Content    string      `json:"content"`
	StyleName  string      `json:"style_name"`
	Style      style.Style `json:"style"`
	Dimensions geom.Size   `json:"dimensions"`
	// Offset is relative to the node's box.
	Offset geom.Point `json:"offset"`
	// Position is absolute.
	Position geom.Point `json:"position"`
}

// Anchor returns a root reference of the given size at the origin.
func Anchor(w, h float64) *Reference {
	return &Reference{Dimensions: geom.Size{W: w, H: h}}
}

// ContentBox returns the box children of r resolve against: r's box inset
// by its padding.
func (r *Reference) ContentBox() (geom.Point, geom.Size) {
	if r.Padding == nil {
		return r.Position, r.Dimensions
	}
	return r.Padding.Inset(r.Position, r.Dimensions)
}

// Map holds resolved references keyed by node name, in resolution order.
type Map struct {
	m *orderedmap.OrderedMap[string, *Reference]
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{m: orderedmap.NewOrderedMap[string, *Reference]()}
}

// Set inserts ref, or replaces the entry with the same name in place.
func (m *Map) Set(ref *Reference) {
	m.m.Set(ref.Name, ref)
}

// Get returns the reference for name.
func (m *Map) Get(name string) (*Reference, bool) {
	return m.m.Get(name)
}

// Len returns the number of references.
func (m *Map) Len() int { return m.m.Len() }

// Names returns the node names in order.
func (m *Map) Names() []string {
	names := make([]string, 0, m.m.Len())
	for el := m.m.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// All iterates over name/reference pairs in order.
func (m *Map) All() iter.Seq2[string, *Reference] {
	return func(yield func(string, *Reference) bool) {
		for el := m.m.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// References returns the references in order.
func (m *Map) References() []*Reference {
	refs := make([]*Reference, 0, m.m.Len())
	for _, ref := range m.All() {
		refs = append(refs, ref)
	}
	return refs
}

// Children returns the references whose parent is name, in order.
func (m *Map) Children(name string) []*Reference {
	var out []*Reference
	for _, ref := range m.All() {
		if ref.Parent == name && ref.Name != name {
			out = append(out, ref)
		}
	}
	return out
}

// MarshalJSON encodes the map as an array in resolution order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.References())
}

// UnmarshalJSON decodes an array of references, keeping their order.
func (m *Map) UnmarshalJSON(data []byte) error {
	var refs []*Reference
	if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	m.m = orderedmap.NewOrderedMap[string, *Reference]()
	for _, ref := range refs {
		m.Set(ref)
	}
	return nil
}
