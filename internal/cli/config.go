package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parkgen/pkg/config"
	"github.com/matzehuels/parkgen/pkg/pipeline"
)

// configCommand creates the config command, which prints (or writes) a
// starter options file.
func (c *CLI) configCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default options as a config file",
		Long: `Print the default options as a config file.

The output can be edited and passed back with 'generate --config'.`,
		Example: `  parkgen config > park.toml
  parkgen config --format yaml -o park.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && !cmd.Flags().Changed("format") {
				f, err := config.FormatOf(output)
				if err != nil {
					return err
				}
				format = f
			}
			if output == "" {
				return config.Encode(cmd.OutOrStdout(), pipeline.DefaultOptions(), format)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := config.Encode(f, pipeline.DefaultOptions(), format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatTOML, "file format: toml, yaml, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
