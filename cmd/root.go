package cmd

import (
	"github.com/spf13/cobra"

	"itube-transcoder/config"
)

func Root(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "itube-transcoder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(transcode(cfg))
	return rootCmd
}
