package migration

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
	"github.com/poofware/mono-repo/backend/services/events-service/migrations"
)

// New opens a migrator over the embedded SQL files.
func New(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// Up applies every pending migration. Already being current is not an error.
func Up(databaseURL string) error {
	m, err := New(databaseURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrateCommand builds the `migrate` CLI with up, down and version subcommands.
func MigrateCommand(databaseURL string) *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "apply the events-service schema",
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := Up(databaseURL); err != nil {
					return err
				}
				utils.Logger.Info("Migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}

				m, err := New(databaseURL)
				if err != nil {
					return err
				}
				defer closeMigrator(m)

				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return err
				}
				utils.Logger.Infof("Rolled back %d migration(s)", steps)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := New(databaseURL)
				if err != nil {
					return err
				}
				defer closeMigrator(m)

				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					cmd.Println("no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty=%t)\n", version, dirty)
				return nil
			},
		},
	)
	return root
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		utils.Logger.WithError(srcErr).Warn("Closing migration source")
	}
	if dbErr != nil {
		utils.Logger.WithError(dbErr).Warn("Closing migration database")
	}
}
