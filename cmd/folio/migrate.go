package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"folio/site/internal/logger"
	"folio/site/internal/store"
)

func newMigrateCommand(env func() (*environment, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := env()
				if err != nil {
					return err
				}
				defer e.Close()
				db, err := e.requireDB(cmd.Context())
				if err != nil {
					return err
				}
				applied, err := store.MigrateUp(db.DB)
				if err != nil {
					return err
				}
				e.log.Info("Migrations complete", logger.Bool("applied", applied))
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (one by default)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				e, err := env()
				if err != nil {
					return err
				}
				defer e.Close()
				db, err := e.requireDB(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.MigrateDown(db.DB, steps); err != nil {
					return err
				}
				e.log.Info("Rolled back migrations", logger.Int("steps", steps))
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := env()
				if err != nil {
					return err
				}
				defer e.Close()
				db, err := e.requireDB(cmd.Context())
				if err != nil {
					return err
				}
				version, dirty, err := store.MigrationVersion(db.DB)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
