package layout

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		in      string
		want    Display
		wantErr bool
	}{
		{"", Inherit, false},
		{"inherit", Inherit, false},
		{"ABSOLUTE", Absolute, false},
		{"fixed", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDisplay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDisplay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidDisplay) {
			t.Errorf("ParseDisplay(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseDisplay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFlexRole(t *testing.T) {
	tests := []struct {
		in        string
		want      FlexRole
		container bool
		item      bool
	}{
		{"", FlexNone, false, false},
		{"row", FlexRow, true, false},
		{"col", FlexCol, true, false},
		{"column", FlexCol, true, false},
		{"fixed", FlexFixed, false, true},
		{"Dynamic", FlexDynamic, false, true},
	}
	for _, tt := range tests {
		got, err := ParseFlexRole(tt.in)
		if err != nil {
			t.Fatalf("ParseFlexRole(%q) error = %v", tt.in, err)
		}
		if got != tt.want || got.IsContainer() != tt.container || got.IsItem() != tt.item {
			t.Errorf("ParseFlexRole(%q) = %v (container=%v item=%v)", tt.in, got, got.IsContainer(), got.IsItem())
		}
	}
	if _, err := ParseFlexRole("wrap"); !errors.Is(err, errors.ErrCodeInvalidFlexRole) {
		t.Errorf("ParseFlexRole(wrap) error = %v", err)
	}
}

func TestNodeJSON(t *testing.T) {
	var n Node
	data := `{"name":"a","display":"absolute","flex":"column","dimensions":{"w":"100%","h":20}}`
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n.Display != Absolute || n.Flex != FlexCol {
		t.Errorf("Unmarshal() = %+v", n)
	}
	if w := n.Dimensions.W.Expression(); w != "100%" {
		t.Errorf("W = %q, want 100%%", w)
	}
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"a","display":"absolute","flex":"col","dimensions":{"w":"100%","h":20}}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
