// Package config reads and writes generation options as TOML, YAML or JSON
// files. Fields missing from a file keep their [pipeline.DefaultOptions]
// value.
//
//	# park.toml
//	name = "riverside"
//	paths = 6
//	seed = 7
//
//	[terrain]
//	samples = 150
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/pipeline"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatOf infers the file format from path's extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"config %s: unsupported extension (want .toml, .yaml, .yml or .json)", path)
}

// Load reads options from path and validates them.
func Load(path string) (pipeline.Options, error) {
	format, err := FormatOf(path)
	if err != nil {
		return pipeline.Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("read config: %w", err)
	}
	opts, err := Decode(data, format)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

// Decode parses data on top of the default options and validates the
// result.
func Decode(data []byte, format string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	var err error
	switch format {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &opts)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&opts); err == io.EOF {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&opts)
	default:
		return opts, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", format)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Encode writes opts to w in format.
func Encode(w io.Writer, opts pipeline.Options, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(opts)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
}
