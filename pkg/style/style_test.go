package style

import (
	"testing"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/geom"
)

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"", DefaultName} {
		s, err := r.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", name, err)
		}
		if s != Default() {
			t.Errorf("Lookup(%q) = %+v, want default", name, s)
		}
	}
}

func TestRegistrySetAndLookup(t *testing.T) {
	r := NewRegistry()
	title := Style{Font: "Go Bold", Size: 32, Color: "#222222", Position: geom.Position{X: geom.Px(4), Y: geom.Expr("center")}}
	if err := r.Set("title", title); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := r.Lookup("title")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != title {
		t.Errorf("Lookup() = %+v, want %+v", got, title)
	}
	if names := r.Names(); len(names) != 2 || names[0] != DefaultName || names[1] != "title" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistryOverrideDefault(t *testing.T) {
	r := NewRegistry()
	custom := Default()
	custom.Size = 12
	if err := r.Set("", custom); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Lookup("")
	if got.Size != 12 {
		t.Errorf("default size = %v, want 12", got.Size)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup("missing"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Lookup(missing) error = %v, want %s", err, errors.ErrCodeInvalidStyle)
	}
	tests := []struct {
		name  string
		style Style
	}{
		{"zero size", Style{Font: "Go"}},
		{"negative size", Style{Font: "Go", Size: -1}},
		{"unknown font", Style{Font: "Papyrus", Size: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Set("bad", tt.style); !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("Set() error = %v, want %s", err, errors.ErrCodeInvalidStyle)
			}
		})
	}
	if err := r.Set("bad\x00name", Default()); err == nil {
		t.Error("Set() accepted a name with a control character")
	}
}
