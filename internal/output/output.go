// Package output renders pipeline results for the command line as JSON, YAML
// or plain text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ops4go/phacts/internal/errors"
)

// Format selects an Encoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatText}

// ParseFormat parses a format name. An empty name is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	}
	return "", errors.Newf("unknown output format %q (want json, yaml or text)", s).
		Component("output").
		Category(errors.CategoryValidation).
		Build()
}

// Encoder writes one value per call.
type Encoder interface {
	Encode(v any) error
}

// NewEncoder returns an encoder for f writing to w.
func NewEncoder(w io.Writer, f Format) (Encoder, error) {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, nil
	case FormatYAML:
		return yamlEncoder{w: w}, nil
	case FormatText, "":
		return &textEncoder{w: w}, nil
	}
	return nil, fmt.Errorf("output: unsupported format %q", f)
}

// Write encodes v to w in format f.
func Write(w io.Writer, f Format, v any) error {
	enc, err := NewEncoder(w, f)
	if err != nil {
		return err
	}
	return enc.Encode(v)
}

// yamlEncoder closes a fresh yaml.Encoder per value so each value is a
// complete document.
type yamlEncoder struct {
	w io.Writer
}

func (e yamlEncoder) Encode(v any) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
