package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ApplyMigrations runs every *.sql file in migrationFS, in name order, at most
// once. Each file is applied in its own transaction together with its
// bookkeeping row. It returns the names of the files applied by this call.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, migrationFS fs.FS) ([]string, error) {
	files, err := migrationFiles(migrationFS)
	if err != nil {
		return nil, err
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, migrationTable)
	if _, err := pool.Exec(ctx, createSQL); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", mapConnError(err))
	}

	var applied []string
	for _, name := range files {
		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		done, err := isApplied(ctx, pool, name)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}

		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, upSQL); err != nil {
				return fmt.Errorf("exec: %w", err)
			}
			insert := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", migrationTable)
			if _, err := tx.Exec(ctx, insert, name); err != nil {
				return fmt.Errorf("record: %w", err)
			}
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}

		log.WithField("migration", name).Info("migration applied")
		applied = append(applied, name)
	}

	return applied, nil
}

func migrationFiles(migrationFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)", migrationTable)
	if err := pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// extractUp returns the SQL between the Up and Down markers, or the whole file
// when it has no markers.
func extractUp(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(rest, downMarker); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}
