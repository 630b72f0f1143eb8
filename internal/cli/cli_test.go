package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/parkgen/pkg/config"
	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/pipeline"
	"github.com/matzehuels/parkgen/pkg/scene"
	"github.com/matzehuels/parkgen/pkg/scene/memory"
	"github.com/matzehuels/parkgen/pkg/storage"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"svg,dot,network", []string{"svg", "dot", "network"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		want    map[string]string
	}{
		{"single explicit", []string{"svg"}, "out/plan.svg", map[string]string{"svg": "out/plan.svg"}},
		{"single from name", []string{"svg"}, "", map[string]string{"svg": "park.svg"}},
		{"multiple base", []string{"json", "network"}, "out/demo", map[string]string{
			"json":    "out/demo.json",
			"network": "out/demo.network.svg",
		}},
		{"multiple strips extension", []string{"svg", "dot"}, "demo.json", map[string]string{
			"svg": "demo.svg",
			"dot": "demo.dot",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.formats, tt.output, "park"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(pipeline.Stats{Paths: 4, Benches: 5, Lamps: 3, Trees: 10, Bumps: 100}, true)
	for _, want := range []string{"4 paths", "5 benches", "3 lamps", "10 trees", "100 bumps", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if line := statsLine(pipeline.Stats{}, false); !strings.Contains(line, iconFresh) || strings.Contains(line, "bumps") {
		t.Errorf("statsLine() = %q", line)
	}
}

func TestResolveOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "park.toml")
	if err := os.WriteFile(path, []byte("name = \"cfg\"\npaths = 6\nseed = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	cmd := c.generateCommand()
	if err := cmd.ParseFlags([]string{"--seed", "11", "--benches", "2"}); err != nil {
		t.Fatal(err)
	}
	fromFlags := pipeline.DefaultOptions()
	fromFlags.Seed = 11
	fromFlags.Benches = 2

	got, err := resolveOptions(cmd.Flags(), path, fromFlags)
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if got.Name != "cfg" || got.Paths != 6 {
		t.Errorf("config values lost: name=%q paths=%d", got.Name, got.Paths)
	}
	if got.Seed != 11 || got.Benches != 2 {
		t.Errorf("explicit flags not applied: seed=%d benches=%d", got.Seed, got.Benches)
	}

	if _, err := resolveOptions(cmd.Flags(), filepath.Join(t.TempDir(), "missing.toml"), fromFlags); err == nil {
		t.Error("missing config should fail")
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestGenerateAndRender(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	base := filepath.Join(dir, "demo")

	if _, err := runRoot(t, "generate", "--no-cache", "--subdivisions", "20", "--seed", "5",
		"--name", "demo", "-f", "json,svg,dot", "-o", base, "--save"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, ext := range []string{".json", ".svg", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing output %s: %v", ext, err)
		}
	}

	p, err := park.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read park: %v", err)
	}
	if p.Name != "demo" || p.Seed != 5 || len(p.Paths) != pipeline.DefaultPaths {
		t.Errorf("park = %s seed %d with %d paths", p.Name, p.Seed, len(p.Paths))
	}

	plan := filepath.Join(dir, "again.svg")
	if _, err := runRoot(t, "render", "--no-cache", base+".json", "-o", plan, "--labels"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(plan)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("render output is not SVG: %.60s", data)
	}

	store, err := storage.NewFileStore("")
	if err != nil {
		t.Fatal(err)
	}
	recs, err := store.List(t.Context(), 0)
	if err != nil || len(recs) != 1 || recs[0].Park.Name != "demo" {
		t.Fatalf("history after --save = %d records, err %v", len(recs), err)
	}
	if _, err := runRoot(t, "history", "delete", recs[0].ID); err != nil {
		t.Errorf("history delete: %v", err)
	}
	if _, err := runRoot(t, "history", "show", recs[0].ID); err == nil {
		t.Error("show after delete should fail")
	}
}

type meshCounter struct {
	scene.Host
	meshes int
}

func (m *meshCounter) CreateGroundMesh(ctx context.Context, w, h float64, sx, sy int) (park.Handle, error) {
	m.meshes++
	return m.Host.CreateGroundMesh(ctx, w, h, sx, sy)
}

func TestGenerateValidatesConfigWithFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "park.toml")
	if err := os.WriteFile(path, []byte("seed = 7\nsubdivisions = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := [][]string{
		{"--benches", "0"},
		{"--lamp-separation=-5"},
		{"--subdivisions", "100000"},
	}
	for _, flags := range tests {
		t.Run(strings.Join(flags, " "), func(t *testing.T) {
			host := &meshCounter{Host: memory.New()}
			c := New(io.Discard, LogInfo)
			c.newHost = func() scene.Host { return host }
			root := c.RootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(append([]string{"generate", "--no-cache", "--config", path, "-o", filepath.Join(t.TempDir(), "out")}, flags...))

			err := root.ExecuteContext(t.Context())
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("error = %v, want INVALID_CONFIGURATION", err)
			}
			if host.meshes != 0 {
				t.Errorf("created %d ground meshes before rejecting the options", host.meshes)
			}
		})
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"generate", "--no-cache", "-f", "pdf"},
		{"generate", "--no-cache", "--paths", "0"},
		{"render", "--no-cache", "does-not-exist.json"},
	}
	for _, args := range tests {
		if _, err := runRoot(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	for _, format := range []string{config.FormatTOML, config.FormatYAML, config.FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out, err := runRoot(t, "config", "--format", format)
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			opts, err := config.Decode([]byte(out), format)
			if err != nil {
				t.Fatalf("decode printed config: %v\n%s", err, out)
			}
			want := pipeline.DefaultOptions()
			if opts.Paths != want.Paths || opts.Seed != want.Seed || opts.Terrain != want.Terrain {
				t.Errorf("printed config does not round-trip: %+v", opts)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runRoot(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "parkgen") {
		t.Error("bash completion does not mention parkgen")
	}
}
