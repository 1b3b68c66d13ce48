package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/bjarke-xyz/mortgage-intake/internal/export"
	"github.com/bjarke-xyz/mortgage-intake/internal/intake"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Applications domain.ApplicationRepository
	Comments     domain.CommentRepository
	Exporter     *export.Service
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

type server struct {
	logger *slog.Logger

	appRepository     domain.ApplicationRepository
	commentRepository domain.CommentRepository

	encoder  *intake.Encoder
	exporter *export.Service
	feed     *statusFeed
	metrics  *metrics
}

func NewServer(logger *slog.Logger, opts Options) (*server, error) {
	if opts.Applications == nil || opts.Comments == nil {
		return nil, fmt.Errorf("application and comment repositories are required")
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewService(logger, export.ServiceOptions{})
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	return &server{
		logger:            logger,
		appRepository:     opts.Applications,
		commentRepository: opts.Comments,
		encoder:           intake.NewEncoder(),
		exporter:          opts.Exporter,
		feed:              newStatusFeed(),
		metrics:           newMetrics(opts.Registerer),
	}, nil
}

func (s *server) Server(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "up!")
	})

	r.Post("/applications", s.handleCreateApplication)
	r.Get("/applications/{id}", s.handleGetApplication)
	r.Patch("/applications/{id}", s.handlePatchApplication)
	r.Get("/applications/{id}/events", s.handleApplicationEvents)
	r.Get("/applications/{id}/status", s.handleStatusPage)

	r.Get("/comments", s.handleListComments)
	r.Post("/comments", s.handleCreateComment)
	return r
}
