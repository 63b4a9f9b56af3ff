package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/repository/postgres"
	"go.uber.org/zap"
)

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Retire expired or used auth tokens and sessions",
	Long: `Soft-delete expired or used password reset and email verification
tokens, and delete revoked or expired sessions.

Meant to run periodically, for example from cron.`,
	Args: cobra.NoArgs,
	RunE: runPurgeTokens,
}

func runPurgeTokens(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("starting token purge job")

	result, err := postgres.NewAuthRepository(env.db).PurgeExpired(env.ctx)
	if err != nil {
		env.logger.Error("token purge failed", zap.Error(err))
		return err
	}

	env.logger.Info("token purge completed",
		zap.Int64("password_resets", result.PasswordResets),
		zap.Int64("email_verifications", result.EmailVerifications),
		zap.Int64("sessions", result.Sessions))
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d password resets, %d email verifications, %d sessions\n",
		result.PasswordResets, result.EmailVerifications, result.Sessions)
	return nil
}
