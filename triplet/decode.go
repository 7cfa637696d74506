package triplet

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tripgen/errors"
)

// Format identifies a scenario document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Document is the on-disk shape of a scenario file:
//
//	scenarios:
//	  - name: TariffTest
//	    triplets:
//	      - subject: User
//	        relationship: pay
//	        object: {name: tariff, values: [simple]}
type Document struct {
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios" toml:"scenarios"`
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unsupported scenario file extension %q", filepath.Ext(path)),
			"use .yaml, .yml, .json or .toml")
	}
}

// DecodeFile reads, decodes and validates a scenario file.
func DecodeFile(path string) ([]Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scenario file %s", path)
	}
	scenarios, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.WithDetailf(err, "file %s", path)
	}
	return scenarios, nil
}

// Decode decodes and validates a scenario document from r.
func Decode(r io.Reader, format Format) ([]Scenario, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
		if err == io.EOF {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc)
	default:
		return nil, errors.NewInvalidRequestError("unknown scenario format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.Wrap(errors.ErrInvalidRequest, err.Error()), "failed to decode scenario document")
	}

	if err := ValidateScenarios(doc.Scenarios); err != nil {
		return nil, err
	}
	return doc.Scenarios, nil
}
