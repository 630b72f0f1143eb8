package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/pipeline"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"park.toml", FormatTOML, false},
		{"dir/park.YAML", FormatYAML, false},
		{"park.yml", FormatYAML, false},
		{"park.json", FormatJSON, false},
		{"park.ini", "", true},
		{"park", "", true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{FormatTOML, "name = \"riverside\"\npaths = 6\n\n[terrain]\nsamples = 150\n"},
		{FormatYAML, "name: riverside\npaths: 6\nterrain:\n  samples: 150\n"},
		{FormatJSON, `{"name": "riverside", "paths": 6, "terrain": {"samples": 150}}`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if opts.Name != "riverside" || opts.Paths != 6 {
				t.Errorf("name=%q paths=%d", opts.Name, opts.Paths)
			}
			if opts.Terrain.Samples != 150 {
				t.Errorf("terrain samples = %d", opts.Terrain.Samples)
			}
			def := pipeline.DefaultOptions()
			if opts.Benches != def.Benches || opts.Terrain.FalloffMax != def.Terrain.FalloffMax {
				t.Error("unset fields lost their defaults")
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
		code   errors.Code
	}{
		{"toml syntax", FormatTOML, "paths = ", errors.ErrCodeInvalidFormat},
		{"toml unknown key", FormatTOML, "pathz = 3", errors.ErrCodeInvalidConfig},
		{"yaml unknown key", FormatYAML, "pathz: 3", errors.ErrCodeInvalidFormat},
		{"json type", FormatJSON, `{"paths": "many"}`, errors.ErrCodeInvalidFormat},
		{"invalid value", FormatYAML, "benches: 0", errors.ErrCodeInvalidConfig},
		{"unknown format", "ini", "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := pipeline.DefaultOptions()
	in.Name = "harbor"
	in.Seed = 99
	in.Terrain.ExclusionRadius = 320
	in.Formats = []string{pipeline.FormatSVG, pipeline.FormatDOT}

	for _, format := range []string{FormatTOML, FormatYAML, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, in, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := Decode(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, buf.String())
			}
			if out.ParkKeyOpts() != in.ParkKeyOpts() || out.Name != in.Name {
				t.Errorf("round trip changed options:\n%s", buf.String())
			}
			if len(out.Formats) != 2 || out.Formats[1] != pipeline.FormatDOT {
				t.Errorf("formats = %v", out.Formats)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "park.toml")
	if err := os.WriteFile(path, []byte("seed = 5\ntrees = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Seed != 5 || opts.Trees != 3 {
		t.Errorf("seed=%d trees=%d", opts.Seed, opts.Trees)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoadExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.*"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example configs found: %v", err)
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			opts, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if opts.Name == pipeline.DefaultName {
				t.Errorf("example %s should name its park", path)
			}
		})
	}
}
