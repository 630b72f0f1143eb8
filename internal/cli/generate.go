package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/parkgen/pkg/config"
	"github.com/matzehuels/parkgen/pkg/pipeline"
)

// generateFlags holds the command-line settings that are not park options.
type generateFlags struct {
	config   string
	formats  string
	output   string
	noCache  bool
	redisURL string
	save     bool
	mongoURI string
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a park and write its outputs",
		Long: `Generate a park and write its outputs.

Options come from the built-in defaults, then from --config (TOML, YAML or
JSON), then from any flag given explicitly. The same options and seed always
produce the same park; generated parks are cached locally (or in Redis with
--redis) so repeated runs only re-render.

Formats: json (park description), svg (site plan), dot (path network in
Graphviz DOT), network (the DOT graph rendered to SVG).`,
		Example: `  parkgen generate --seed 7 -f svg,json
  parkgen generate --config park.toml --labels -o out/plan.svg -f svg
  parkgen generate --paths 6 --benches 8 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			final, err := resolveOptions(cmd.Flags(), flags.config, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(final.Formats) == 0 {
				final.Formats = parseFormats(flags.formats)
			}
			if err := pipeline.ValidateFormats(final.Formats); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), final, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "options file (.toml, .yaml, .json)")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): json (default), svg, dot, network (comma-separated)")
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.StringVar(&flags.redisURL, "redis", os.Getenv(envRedisURL), "cache in Redis at this URL instead of on disk")
	f.BoolVar(&flags.save, "save", false, "save the park to history")
	f.StringVar(&flags.mongoURI, "mongo", os.Getenv(envMongoURI), "save history to MongoDB at this URI")

	f.StringVar(&opts.Name, "name", opts.Name, "park name")
	f.IntVar(&opts.Width, "width", opts.Width, "domain width")
	f.IntVar(&opts.Height, "height", opts.Height, "domain height")
	f.IntVar(&opts.Paths, "paths", opts.Paths, "number of paths")
	f.IntVar(&opts.Benches, "benches", opts.Benches, "number of benches")
	f.IntVar(&opts.Trees, "trees", opts.Trees, "number of trees")
	f.IntVar(&opts.LampDensity, "lamp-density", opts.LampDensity, "lamps per path before pruning")
	f.Float64Var(&opts.LampSeparation, "lamp-separation", opts.LampSeparation, "minimum distance between lamps")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed (0 selects the default seed)")
	f.IntVar(&opts.Subdivisions, "subdivisions", opts.Subdivisions, "ground subdivisions per axis")
	f.IntVar(&opts.Terrain.Samples, "bumps", opts.Terrain.Samples, "number of terrain bumps")
	f.Float64Var(&opts.Terrain.ExclusionRadius, "exclusion-radius", opts.Terrain.ExclusionRadius, "keep bumps this far from benches")
	f.BoolVar(&opts.Labels, "labels", false, "label objects in the site plan")
	f.BoolVar(&opts.Refresh, "refresh", false, "regenerate even if the park is cached")

	return cmd
}

// resolveOptions layers explicitly set flags from fromFlags over the config
// file at path, or over fromFlags itself when there is no config file.
func resolveOptions(fs *pflag.FlagSet, path string, fromFlags pipeline.Options) (pipeline.Options, error) {
	if path == "" {
		return fromFlags, nil
	}
	opts, err := config.Load(path)
	if err != nil {
		return opts, err
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "name":
			opts.Name = fromFlags.Name
		case "width":
			opts.Width = fromFlags.Width
		case "height":
			opts.Height = fromFlags.Height
		case "paths":
			opts.Paths = fromFlags.Paths
		case "benches":
			opts.Benches = fromFlags.Benches
		case "trees":
			opts.Trees = fromFlags.Trees
		case "lamp-density":
			opts.LampDensity = fromFlags.LampDensity
		case "lamp-separation":
			opts.LampSeparation = fromFlags.LampSeparation
		case "seed":
			opts.Seed = fromFlags.Seed
		case "subdivisions":
			opts.Subdivisions = fromFlags.Subdivisions
		case "bumps":
			opts.Terrain.Samples = fromFlags.Terrain.Samples
		case "exclusion-radius":
			opts.Terrain.ExclusionRadius = fromFlags.Terrain.ExclusionRadius
		case "labels":
			opts.Labels = fromFlags.Labels
		case "refresh":
			opts.Refresh = fromFlags.Refresh
		}
	})
	return opts, nil
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, flags generateFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache, flags.redisURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinner(ctx, fmt.Sprintf("Generating %s (seed %d)...", opts.Name, opts.Seed))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	printSuccess("Generated %s", StyleTitle.Render(result.Park.Name))
	printStats(result.Stats, result.CacheInfo.ParkHit)
	if err := writeArtifacts(result.Artifacts, opts.Formats, flags.output, result.Park.Name); err != nil {
		return err
	}

	if flags.save {
		store, err := openStore(ctx, flags.mongoURI)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		prog := newProgress(c.Logger)
		rec, err := store.Save(ctx, result.Park)
		if err != nil {
			return fmt.Errorf("save park: %w", err)
		}
		prog.done("Saved park " + rec.ID)
		printNextStep("Show it again", "parkgen history show "+rec.ID)
	}
	return nil
}
