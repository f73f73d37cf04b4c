// Package migration applies the embedded schema migrations with goose.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrations embed.FS

const migrationsDir = "sql"

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// EnsureMigrated brings the schema up to the latest embedded version.
// Already applied versions are skipped, so it is safe to call on every start.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	lg := logger.With(slog.String("component", "database"))

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{lg: lg})
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	start := time.Now()
	lg.InfoContext(ctx, "db migration starting")
	if err := gooseUp(ctx, db, migrationsDir); err != nil {
		lg.ErrorContext(ctx, "db migration failed",
			slog.Any("error", err),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("apply migrations: %w", err)
	}
	lg.InfoContext(ctx, "db migration finished",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	lg *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.lg.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. goose only calls it from its CLI helpers, which are not used here.
func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.lg.Error(fmt.Sprintf(format, v...))
}
