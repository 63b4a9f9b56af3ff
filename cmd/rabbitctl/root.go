package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/rabbitfarm/internal/config"
	"github.com/vncsmyrnk/rabbitfarm/internal/logging"
	"go.uber.org/zap"
)

var (
	envFile    string
	jobTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "rabbitctl",
	Short:        "Operational tasks for the rabbit farm backend",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading the environment")
	rootCmd.PersistentFlags().DurationVar(&jobTimeout, "timeout", 5*time.Minute, "maximum run time of the job")

	rootCmd.AddCommand(migrateCmd, purgeTokensCmd)
}

// jobEnv holds what every subcommand needs: a logger, a database and a deadline.
type jobEnv struct {
	logger *zap.Logger
	db     *sql.DB
	ctx    context.Context
	cancel context.CancelFunc
}

func (e *jobEnv) Close() {
	e.cancel()
	_ = e.db.Close()
	_ = e.logger.Sync()
}

func setup(cmd *cobra.Command) (*jobEnv, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), jobTimeout)
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &jobEnv{logger: logger, db: db, ctx: ctx, cancel: cancel}, nil
}
