package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newLogger(w io.Writer, env string, service string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, nil))
	child := logger.With(slog.Group("service_info", slog.String("env", env), slog.String("service", service)))
	return child
}

// poolURL appends pool sizing to a connection string.
func poolURL(connStr string, maxConns int) string {
	if maxConns <= 0 {
		maxConns = 1
	}
	minConns := min(2, maxConns)
	queryChar := "?"
	if strings.Contains(connStr, "?") {
		queryChar = "&"
	}
	return fmt.Sprintf(
		"%s%vpool_max_conns=%d&pool_min_conns=%d",
		connStr,
		queryChar,
		maxConns,
		minConns,
	)
}

func newDatabasePool(ctx context.Context, connStr string, maxConns int) (*pgxpool.Pool, error) {
	err := repository.Migrate(repository.MigrateUp, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	config, err := pgxpool.ParseConfig(poolURL(connStr, maxConns))
	if err != nil {
		return nil, err
	}

	// Setting the build statement cache to nil helps this work with pgbouncer
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Second
	return pgxpool.NewWithConfig(ctx, config)
}
