package cmd

import (
	"github.com/spf13/cobra"
)

// configDir overrides ~/.config/gofriday.
var configDir string

var rootCmd = &cobra.Command{
	Use:           "gofriday",
	Short:         "Short mindful exercises for the moments an impulse hits",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config and data directory (default ~/.config/gofriday)")
}
