// Package server provides the HTTP upload page and JSON API for saiyo.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/saiyo/internal/config"
	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/pkg/utils"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Screener ranks one batch of uploaded résumés.
type Screener interface {
	Screen(ctx context.Context, jobDescription string, docs []*models.Document) (*models.RankResponse, error)
}

// Server is the HTTP server for the ranking page and API.
type Server struct {
	screener Screener
	config   *config.ServerConfig
	extract  *config.ExtractConfig
	logger   *zap.Logger
	page     *template.Template
	server   *http.Server
	// accept and formats describe the configured extensions on the upload form.
	accept  string
	formats string
}

// NewServer creates a server with the given dependencies.
func NewServer(screener Screener, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(p float64) string { return fmt.Sprintf("%.0f%%", p*100) },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		screener: screener,
		config:   &cfg.Server,
		extract:  &cfg.Extract,
		logger:   utils.OrNop(logger),
		page:     page,
		accept:   strings.Join(cfg.Extract.Extensions, ","),
		formats:  formatLabel(cfg.Extract.Extensions),
	}, nil
}

// formatLabel renders extensions for display, e.g. "PDF, DOCX".
func formatLabel(extensions []string) string {
	labels := make([]string, len(extensions))
	for i, ext := range extensions {
		labels[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return strings.Join(labels, ", ")
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleRankPage)
	r.Post("/api/v1/rank", s.handleRank)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
