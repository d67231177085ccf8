package cli

import (
	"fmt"

	"github.com/Leopold1975/emoji_best/internal/emojis/app"
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/spf13/cobra"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("create app error: %w", err)
			}

			a.Run(cmd.Context())

			return nil
		},
	}
}
