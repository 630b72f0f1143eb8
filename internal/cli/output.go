package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/parkgen/pkg/pipeline"
)

// outputPaths maps each format to the file it is written to. With a single
// format an explicit output is used verbatim; otherwise output (or the park
// name) is a base path that gets a per-format extension.
func outputPaths(formats []string, output, name string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = name
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

// writeArtifacts writes every rendered format and reports the files.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, name string) error {
	paths := outputPaths(formats, output, name)
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
