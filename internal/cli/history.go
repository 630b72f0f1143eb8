package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parkgen/pkg/pipeline"
	"github.com/matzehuels/parkgen/pkg/storage"
)

// historyCommand creates the command group for saved parks.
func (c *CLI) historyCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse parks saved with 'generate --save'",
	}
	cmd.PersistentFlags().StringVar(&mongoURI, "mongo", os.Getenv(envMongoURI), "read history from MongoDB at this URI")

	withStore := func(fn func(ctx context.Context, store storage.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), mongoURI)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()
			return fn(cmd.Context(), store, args)
		}
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved parks, newest first",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store storage.Store, _ []string) error {
			recs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No saved parks")
				return nil
			}
			for _, rec := range recs {
				s := rec.Summary()
				fmt.Printf("%s  %s  %s\n",
					StyleValue.Render(s.ID),
					StyleDim.Render(s.CreatedAt.Local().Format(time.DateTime)),
					StyleTitle.Render(s.Name))
				printDetail("seed %d · %d paths · %d benches · %d lamps · %d trees",
					s.Seed, s.Paths, s.Benches, s.Lamps, s.Trees)
			}
			return nil
		}),
	}
	list.Flags().IntVarP(&limit, "limit", "n", storage.DefaultListLimit, "maximum number of parks")

	var (
		formatsStr string
		output     string
		labels     bool
	)
	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved park, optionally rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(ctx context.Context, store storage.Store, args []string) error {
			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			s := rec.Summary()
			printKeyValue("id", s.ID)
			printKeyValue("name", s.Name)
			printKeyValue("created", s.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("seed", strconv.FormatUint(s.Seed, 10))
			printKeyValue("hash", rec.Hash)
			printStats(pipeline.Stats{
				Paths:   s.Paths,
				Benches: s.Benches,
				Lamps:   s.Lamps,
				Trees:   s.Trees,
				Bumps:   len(rec.Park.Terrain.Bumps),
			}, false)

			if formatsStr == "" {
				return nil
			}
			opts := pipeline.DefaultOptions()
			opts.Formats = parseFormats(formatsStr)
			opts.Labels = labels
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			artifacts, err := pipeline.Render(ctx, rec.Park, opts.Formats, opts.Labels)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return writeArtifacts(artifacts, opts.Formats, output, s.Name)
		}),
	}
	show.Flags().StringVarP(&formatsStr, "format", "f", "", "also render these format(s) (comma-separated)")
	show.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	show.Flags().BoolVar(&labels, "labels", false, "label objects in the site plan")

	remove := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved park",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(ctx context.Context, store storage.Store, args []string) error {
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, show, remove)
	return cmd
}
