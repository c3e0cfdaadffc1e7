package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Display selects the reference box a node resolves against.
type Display uint8

const (
	// Inherit resolves against the parent's content box.
	Inherit Display = iota
	// Absolute resolves against the viewport.
	Absolute
)

// String returns the display mode as authored in documents.
func (d Display) String() string {
	switch d {
	case Inherit:
		return "inherit"
	case Absolute:
		return "absolute"
	}
	return fmt.Sprintf("Display(%d)", uint8(d))
}

// ParseDisplay parses a display mode. The empty string is [Inherit].
func ParseDisplay(s string) (Display, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inherit":
		return Inherit, nil
	case "absolute":
		return Absolute, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidDisplay, "unknown display mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Display) MarshalText() ([]byte, error) {
	if d > Absolute {
		return nil, errors.New(errors.ErrCodeInvalidDisplay, "unknown display mode %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Display) UnmarshalText(text []byte) error {
	v, err := ParseDisplay(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// FlexRole marks a node as a flex container or as an item of one.
type FlexRole uint8

const (
	FlexNone FlexRole = iota
	FlexRow
	FlexCol
	FlexFixed
	FlexDynamic
)

// IsContainer reports whether the role opens a flex run.
func (f FlexRole) IsContainer() bool { return f == FlexRow || f == FlexCol }

// IsItem reports whether the role places the node inside a flex run.
func (f FlexRole) IsItem() bool { return f == FlexFixed || f == FlexDynamic }

// String returns the role as authored in documents.
func (f FlexRole) String() string {
	switch f {
	case FlexNone:
		return ""
	case FlexRow:
		return "row"
	case FlexCol:
		return "col"
	case FlexFixed:
		return "fixed"
	case FlexDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("FlexRole(%d)", uint8(f))
}

// ParseFlexRole parses a flex role. "column" is accepted for [FlexCol].
func ParseFlexRole(s string) (FlexRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FlexNone, nil
	case "row":
		return FlexRow, nil
	case "col", "column":
		return FlexCol, nil
	case "fixed":
		return FlexFixed, nil
	case "dynamic":
		return FlexDynamic, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFlexRole, "unknown flex role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f FlexRole) MarshalText() ([]byte, error) {
	if f > FlexDynamic {
		return nil, errors.New(errors.ErrCodeInvalidFlexRole, "unknown flex role %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FlexRole) UnmarshalText(text []byte) error {
	v, err := ParseFlexRole(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
