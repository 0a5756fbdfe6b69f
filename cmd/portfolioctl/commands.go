package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"portfolio-service/internal/adapters/secondary/jwtsession"
	"portfolio-service/internal/adapters/secondary/postgres"
	"portfolio-service/internal/adapters/secondary/postgres/migrations"
	"portfolio-service/internal/core/services"
	"portfolio-service/internal/seed"
)

// =============================================================================
// MIGRATE
// =============================================================================

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			applied, err := postgres.ApplyMigrations(cmd.Context(), pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		})
	},
}

// =============================================================================
// SEED
// =============================================================================

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the bundled sample projects",
	Long: `Inserts the sample projects shipped with the binary. By default nothing
is inserted when the catalogue already has projects; --force inserts them
anyway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			repo := postgres.NewProjectRepository(pool)
			svc := services.NewProjectService(repo, cfg.Database.QueryTimeout)

			n, err := seed.Run(cmd.Context(), repo, svc, seedForce)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d project(s)\n", n)
			return nil
		})
	},
}

// =============================================================================
// CREATE-ADMIN
// =============================================================================

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Creates an admin account. Flags default to ADMIN_USERNAME, ADMIN_EMAIL
and ADMIN_PASSWORD from the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := firstNonEmpty(adminUsername, cfg.Admin.Username)
		email := firstNonEmpty(adminEmail, cfg.Admin.Email)
		password := firstNonEmpty(adminPassword, cfg.Admin.Password)

		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			auth := services.NewAuthService(
				postgres.NewAdminRepository(pool),
				jwtsession.NewManager(&cfg.Session),
				services.AdminBootstrap{},
			)
			admin, err := auth.CreateAdmin(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Username, admin.ID)
			return nil
		})
	},
}

// =============================================================================
// DB-STATUS
// =============================================================================

var dbStatusCmd = &cobra.Command{
	Use:   "db-status",
	Short: "Report database connectivity and catalogue size",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
			health := services.NewHealthService(pool, postgres.NewProjectRepository(pool), services.HealthInfo{})
			status := health.DBStatus(cmd.Context())
			if !status.Connected {
				return fmt.Errorf("database disconnected: %s", status.Error)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "status:   connected")
			fmt.Fprintf(out, "projects: %d\n", status.ProjectCount)
			if s := status.SampleProject; s != nil {
				fmt.Fprintf(out, "latest:   %s (%s, %d media)\n", s.Title, s.Category, s.MediaCount)
			}
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "insert even when projects already exist")

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username (default $ADMIN_USERNAME)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (default $ADMIN_EMAIL)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (default $ADMIN_PASSWORD)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
