package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stacklayout/pkg/geom"
	"github.com/matzehuels/stacklayout/pkg/layout"
	"github.com/matzehuels/stacklayout/pkg/text"
)

func testReferences(t *testing.T) *layout.Map {
	t.Helper()
	nodes := []layout.Node{
		{Name: "main", Dimensions: &geom.Dimensions{W: geom.Px(200), H: geom.Px(100)}, Fill: "#fff", Padding: &geom.Edges{Top: 4, Right: 4, Bottom: 4, Left: 4}},
		{Name: "label", Parent: "main", Text: "hey"},
		{Name: "badge", Parent: "label", Dimensions: &geom.Dimensions{W: geom.Px(10), H: geom.Px(10)}},
	}
	refs, err := layout.New(layout.WithMeasurer(text.Approx{})).Resolve(nodes, layout.Anchor(200, 100))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return refs
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReferenceListModelDepth(t *testing.T) {
	m := NewReferenceListModel(testReferences(t))
	if len(m.Refs) != 3 {
		t.Fatalf("got %d refs, want 3", len(m.Refs))
	}
	if m.Depth["main"] != 0 || m.Depth["label"] != 1 || m.Depth["badge"] != 2 {
		t.Errorf("depth = %v", m.Depth)
	}
}

func TestReferenceListModelNavigation(t *testing.T) {
	var model tea.Model = NewReferenceListModel(testReferences(t))

	model, _ = model.Update(key("up"))
	if got := model.(ReferenceListModel).Cursor; got != 0 {
		t.Errorf("cursor after up at top = %d, want 0", got)
	}
	model, _ = model.Update(key("down"))
	model, _ = model.Update(key("j"))
	model, _ = model.Update(key("down"))
	if got := model.(ReferenceListModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", got)
	}
	model, _ = model.Update(key("g"))
	if got := model.(ReferenceListModel).Cursor; got != 0 {
		t.Errorf("cursor after home = %d, want 0", got)
	}
	model, _ = model.Update(key("G"))
	if got := model.(ReferenceListModel).Cursor; got != 2 {
		t.Errorf("cursor after end = %d, want 2", got)
	}

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestReferenceListModelScroll(t *testing.T) {
	m := NewReferenceListModel(testReferences(t))
	m.Height = 1
	var model tea.Model = m
	model, _ = model.Update(key("down"))
	model, _ = model.Update(key("down"))
	got := model.(ReferenceListModel)
	if got.Offset != 2 {
		t.Errorf("offset = %d, want 2", got.Offset)
	}
	model, _ = got.Update(key("up"))
	if off := model.(ReferenceListModel).Offset; off != 1 {
		t.Errorf("offset after up = %d, want 1", off)
	}
}

func TestReferenceListModelView(t *testing.T) {
	var model tea.Model = NewReferenceListModel(testReferences(t))

	view := model.View()
	for _, want := range []string{"References", "main", "label", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "padding") {
		t.Error("details should be hidden by default")
	}

	model, _ = model.Update(key("enter"))
	view = model.View()
	for _, want := range []string{"padding", "4 4 4 4", "fill", "#fff"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}

func TestReferenceDetailsText(t *testing.T) {
	refs := testReferences(t)
	label, _ := refs.Get("label")
	details := referenceDetails(label)
	for _, want := range []string{`"hey"`, "default", "parent", "main"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}
}
