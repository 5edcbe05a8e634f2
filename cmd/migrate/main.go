// Command migrate applies the SQL migrations under ./migrations and can seed
// the listings table from a catalog document.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"listings-be/internal/config"
	"listings-be/internal/db"
	"listings-be/internal/listing"
	"listings-be/internal/logger"

	"go.uber.org/zap"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT NOW()
	);`

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or seed")
	dir := flag.String("dir", "./migrations", "directory holding *.sql migrations")
	seedFile := flag.String("seed", "", "catalog document to insert in seed mode")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal("failed to load config", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect db", zap.Error(err))
	}
	defer database.Close()

	if err := run(context.Background(), database, *mode, *dir, *seedFile); err != nil {
		logger.L().Fatal("migrate failed", zap.String("mode", *mode), zap.Error(err))
	}
}

func run(ctx context.Context, database *sql.DB, mode, dir, seedFile string) error {
	if mode == "seed" {
		return seed(ctx, listing.NewRepository(database), listing.FileSource{Path: seedFile})
	}

	if _, err := database.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	switch mode {
	case "up":
		return migrateUp(ctx, database, files)
	case "down":
		return migrateDown(ctx, database, files)
	default:
		return fmt.Errorf("unknown mode: %s (use up, down or seed)", mode)
	}
}

// migrationFiles lists dir's migrations in version order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

func migrateUp(ctx context.Context, database *sql.DB, files []string) error {
	log := logger.L().With(zap.String("mode", "up"))
	applied := 0
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := database.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := database.ExecContext(ctx, section(string(content), "Up")); err != nil {
			return fmt.Errorf("apply %s: %w", version, err)
		}
		if _, err := database.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record %s: %w", version, err)
		}
		applied++
	}
	log.Info("migrations applied", zap.Int("applied", applied))
	return nil
}

// migrateDown rolls back the most recently applied migration only.
func migrateDown(ctx context.Context, database *sql.DB, files []string) error {
	log := logger.L().With(zap.String("mode", "down"))

	var version string
	err := database.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find last migration: %w", err)
	}

	i := slices.IndexFunc(files, func(f string) bool { return filepath.Base(f) == version })
	if i < 0 {
		return fmt.Errorf("migration file not found for version %s", version)
	}
	content, err := os.ReadFile(files[i])
	if err != nil {
		return fmt.Errorf("read %s: %w", files[i], err)
	}

	log.Info("rolling back migration", zap.String("version", version))
	if _, err := database.ExecContext(ctx, section(string(content), "Down")); err != nil {
		return fmt.Errorf("roll back %s: %w", version, err)
	}
	if _, err := database.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
		return fmt.Errorf("forget %s: %w", version, err)
	}
	return nil
}

// section returns the statements between "-- +migrate <name>" and the next
// marker.
func section(content, name string) string {
	var b strings.Builder
	in := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-- +migrate") {
			if in {
				break
			}
			in = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-- +migrate")) == name
			continue
		}
		if in {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type inserter interface {
	Insert(ctx context.Context, l listing.Listing) error
}

// seed copies every listing of src into repo, keeping document order.
func seed(ctx context.Context, repo inserter, src listing.Source) error {
	listings, err := src.Load(ctx)
	if err != nil {
		return err
	}
	for _, l := range listings {
		if err := repo.Insert(ctx, l); err != nil {
			return fmt.Errorf("insert %q: %w", l.Name, err)
		}
	}
	logger.L().Info("catalog seeded", zap.Int("listings", len(listings)))
	return nil
}
