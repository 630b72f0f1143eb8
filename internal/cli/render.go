package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parkgen/pkg/park"
	"github.com/matzehuels/parkgen/pkg/pipeline"
)

// renderCommand creates the render command for re-rendering a park file.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		labels     bool
		noCache    bool
		redisURL   string
	)

	cmd := &cobra.Command{
		Use:   "render [park.json]",
		Short: "Render outputs from a generated park description",
		Long: `Render outputs from a generated park description.

The render command takes a park.json file (produced by 'generate -f json')
and renders it without regenerating anything. The terrain is replayed from
the recorded bumps, so the site plan shows the same ground as the original
run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if formatsStr == "" {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			opts := pipeline.DefaultOptions()
			opts.Formats = formats
			opts.Labels = labels
			return c.runRender(cmd.Context(), args[0], opts, output, noCache, redisURL)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, network (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&labels, "labels", false, "label objects in the site plan")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisURL, "redis", os.Getenv(envRedisURL), "cache in Redis at this URL instead of on disk")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, redisURL string) error {
	p, err := park.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load park %s: %w", input, err)
	}
	if p.Terrain.SubdivX == 0 {
		printWarning("%s has no terrain record; the site plan shows no ground", input)
	}

	runner, err := c.newRunner(ctx, noCache, redisURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", p.Name))
	spinner.Start()

	artifacts, _, hit, err := runner.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if hit {
		printInfo("Rendered %s %s", p.Name, styleCached.Render("("+iconCached+")"))
	} else {
		printSuccess("Rendered %s", p.Name)
	}
	if output == "" {
		output = input
	}
	return writeArtifacts(artifacts, opts.Formats, output, p.Name)
}
