package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// WriteDocument encodes doc to w in the given format.
func WriteDocument(doc *Document, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	return nil
}

// WriteReferences encodes resolved references as an indented JSON array in
// resolution order.
func WriteReferences(refs *layout.Map, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(refs); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode references")
	}
	return nil
}

// ExportReferences writes resolved references to path.
func ExportReferences(refs *layout.Map, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteReferences(refs, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
