package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/bjarke-xyz/mortgage-intake/internal/export"
	"github.com/bjarke-xyz/mortgage-intake/internal/repository"
	serverPkg "github.com/bjarke-xyz/mortgage-intake/internal/server"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func ServerCmd(ctx context.Context) error {
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := newLogger(os.Stdout, cfg.Env, "mortgage-intake")

	var (
		apps     domain.ApplicationRepository
		comments domain.CommentRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := newDatabasePool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			return fmt.Errorf("error creating db pool: %w", err)
		}
		defer pool.Close()
		apps = repository.NewPostgresApplications(pool)
		comments = repository.NewPostgresComments(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		apps = repository.NewMemoryApplications()
		comments = repository.NewMemoryComments()
	}

	exportOpts := export.ServiceOptions{LenderName: cfg.LenderName, ChromePath: cfg.ChromePath}
	if cfg.Archive.Endpoint != "" {
		archiver, err := export.NewMinioArchiver(cfg.Archive)
		if err != nil {
			return fmt.Errorf("error creating archive client: %w", err)
		}
		if err := archiver.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("error preparing archive bucket: %w", err)
		}
		exportOpts.Archiver = archiver
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := serverPkg.NewServer(logger, serverPkg.Options{
		Applications: apps,
		Comments:     comments,
		Exporter:     export.NewService(logger, exportOpts),
		Registerer:   registry,
	})
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv := server.Server(cfg.Port)

	// metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("started server", slog.Int("port", cfg.Port), slog.Int("metricsPort", cfg.MetricsPort))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
