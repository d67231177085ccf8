package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "emojis",
		Short:         "Crowdsourced custom emoji sharing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newDownloadCommand(),
	)

	return root
}
