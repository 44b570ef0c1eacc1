package storage

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsTimeout = time.Minute

// RunMigrations applies pending goose migrations embedded into the binary.
func RunMigrations(ctx context.Context, log *slog.Logger) error {
	sqlDb, err := GetDb().DB()
	if err != nil {
		return fmt.Errorf("get sql connection: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, migrationsTimeout)
	defer cancel()

	log.Info("Applying database migrations")
	if err := goose.UpContext(runCtx, sqlDb, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("Database migrations applied")
	return nil
}
