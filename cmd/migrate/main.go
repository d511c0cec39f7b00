// migrate applies the versioned SQL files in migrations/ that have not been
// applied yet. Applied files are tracked with a checksum; an edited file that
// was already applied stops the run.
//
// Usage: go run ./cmd/migrate [--dir migrations]
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/moonandjupiter/consign-tracker/internal/db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const advisoryLockKey = 7462839

func main() {
	_ = godotenv.Load()

	var dir string
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending SQL migrations to the records database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			pool, err := db.NewPool(connCtx, os.Getenv("DATABASE_URL"))
			if err != nil {
				return fmt.Errorf("[CONNECT] %w", err)
			}
			defer pool.Close()
			logrus.Info("[CONNECT] success")

			conn, err := acquireLock(ctx, pool)
			if err != nil {
				return err
			}
			defer conn.Release()

			if err := setupSchemaMigrations(ctx, pool); err != nil {
				return err
			}
			files, err := discoverMigrations(dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := applyMigration(ctx, pool, dir, f); err != nil {
					return err
				}
			}
			logrus.Info("[DONE] All migrations processed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory holding NNN_description.sql files")

	if err := cmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("[LOCK] failed to acquire connection for lock: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", advisoryLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("[LOCK] failed to query advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, errors.New("[LOCK] failed: another migrator is currently running")
	}

	logrus.Info("[LOCK] success")
	return conn, nil
}

func setupSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// discoverMigrations lists the .sql files of dir in version order and rejects
// duplicate versions.
func discoverMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("[DISCOVER] failed to read migrations directory: %w", err)
	}

	var filenames []string
	versions := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := extractVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if versions[version] {
			return nil, fmt.Errorf("[DISCOVER] duplicate version found: %s", version)
		}
		versions[version] = true
		filenames = append(filenames, entry.Name())
	}

	sort.Strings(filenames)
	return filenames, nil
}

func extractVersion(filename string) (string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", fmt.Errorf("[DISCOVER] invalid migration filename format: %s. Expected format NNN_description.sql", filename)
	}
	return parts[0], nil
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, dir, filename string) error {
	version, err := extractVersion(filename)
	if err != nil {
		return err
	}
	sqlBytes, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", filename, err)
	}
	sum := checksum(sqlBytes)

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != sum {
			return fmt.Errorf("checksum mismatch for %s: applied %s, file %s", filename, existing, sum)
		}
		logrus.Infof("[SKIP] %s", filename)
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("failed to query schema_migrations for %s: %w", filename, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)", version, filename, sum); err != nil {
		return fmt.Errorf("failed to insert migration record for %s: %w", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for %s: %w", filename, err)
	}

	logrus.Infof("[APPLY] %s", filename)
	return nil
}
