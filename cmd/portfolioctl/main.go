package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portfolio-service/internal/adapters/secondary/postgres"
	"portfolio-service/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Operator tasks for the portfolio service",
	Long: `portfolioctl runs maintenance tasks against the portfolio database.

It reads the same environment variables as the server (DATABASE_URL,
ADMIN_*, LOGGER_*), so run it with the server's environment loaded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		loaded.Logger.Apply()
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd, dbStatusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

// withPool opens the database for the duration of fn.
func withPool(ctx context.Context, fn func(pool *pgxpool.Pool) error) error {
	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}
