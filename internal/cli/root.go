package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
}

func NewRootCommand() *cobra.Command {
	options := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "lunacycle",
		Short:         "Menstrual cycle tracking and prediction service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", "lunacycle.toml", "path to the TOML config file")

	rootCmd.AddCommand(
		newServeCommand(options),
		newStatsCommand(options),
		newImportCommand(options),
		newTokenCommand(options),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
