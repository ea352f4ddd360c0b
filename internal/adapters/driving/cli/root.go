// Package cli implements the atlas command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/policyatlas/atlas-cli/internal/adapters/driven/config/file"
	"github.com/policyatlas/atlas-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string

	// cfg is the loaded configuration, available to all commands after
	// PersistentPreRunE.
	cfg configfile.Config
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Pull policy document families into a local document graph",
	Long: `atlas extracts document families from the upstream corpus API,
transforms them into a graph of documents with typed relationships and
classification labels, and loads the graph into local storage.

Configuration is read from a TOML file (default ~/.atlas/config.toml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		path := configPath
		if path == "" {
			var err error
			path, err = configfile.DefaultPath()
			if err != nil {
				return err
			}
		}

		loaded, err := configfile.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.atlas/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	return nil
}
