package cli

import (
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/spf13/cobra"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	run := func(f func(config.PostgresDB) error) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return f(cfg.PostgresDB)
		}
	}

	cmd.AddCommand(
		&cobra.Command{ //nolint:exhaustruct
			Use:   "up",
			Short: "Apply migrations up to db.version, or all of them",
			Args:  cobra.NoArgs,
			RunE:  run(pgtools.ApplyMigration),
		},
		&cobra.Command{ //nolint:exhaustruct
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE:  run(pgtools.RollbackMigration),
		},
		&cobra.Command{ //nolint:exhaustruct
			Use:   "status",
			Short: "Print the status of every migration",
			Args:  cobra.NoArgs,
			RunE:  run(pgtools.MigrationStatus),
		},
	)

	return cmd
}
