package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds style names.
const maxNameLength = 256

// ValidateNodeName rejects the empty name. Any other string is a valid
// reference key; sinks escape names where their format needs it.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNode, "node name cannot be empty")
	}
	return nil
}

// ValidateStyleName validates a style registry key. The empty name is
// allowed and selects the default style.
func ValidateStyleName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidStyle, "style name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath checks an export path: non-empty, at most 500 bytes, no
// control characters, and no ".." segment.
func ValidatePath(path string) error {
	const maxPathLength = 500
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
