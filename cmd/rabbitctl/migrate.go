package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/repository/postgres"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Long: `Apply every embedded *.up.sql migration in order.

Migrations are idempotent, so running the command on an up-to-date
database is safe.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("applying migrations")
	applied, err := postgres.Apply(env.ctx, env.db)
	if err != nil {
		env.logger.Error("migration failed", zap.Strings("applied", applied), zap.Error(err))
		return err
	}

	env.logger.Info("migrations applied", zap.Strings("files", applied))
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(applied))
	return nil
}
