// Package server exposes grid sessions over HTTP. Each session owns one row
// provider; a rows request streams the root page and the eager child pushes
// as newline-delimited JSON events.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

// Config controls HTTP server startup.
type Config struct {
	// Addr is the address to listen on (e.g., ":8080" or "localhost:8080").
	Addr string

	// NewSource opens the record source for a new session.
	NewSource func() (rowmodel.Source, error)

	// Options are served on /api/options. Defaults to grid.DefaultOptions().
	Options *grid.Options

	// Tokens, if not empty, are the bearer tokens accepted on /api routes.
	Tokens []string

	// EnableCORS enables CORS headers for browser-based clients.
	EnableCORS bool

	// AllowedOrigins is a list of allowed CORS origins (if EnableCORS is true).
	// If empty, allows all origins.
	AllowedOrigins []string

	TLSCertFile string
	TLSKeyFile  string
}

// NewRouter builds the HTTP routes for the given config and session store.
func NewRouter(cfg Config, sessions *Sessions) *mux.Router {
	options := cfg.Options
	if options == nil {
		options = grid.DefaultOptions()
	}
	controller := &Controller{sessions: sessions, options: options}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/options", controller.GetOptions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", controller.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}", controller.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionID}/rows", controller.GetRows).Methods(http.MethodPost)

	if len(cfg.Tokens) > 0 {
		api.Use(bearerTokenMiddleware(cfg.Tokens))
	}
	if cfg.EnableCORS {
		router.Use(corsMiddleware(cfg.AllowedOrigins))
		router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.NewSource == nil {
		return fmt.Errorf("no record source configured")
	}
	sessions := NewSessions(cfg.NewSource)
	defer sessions.CloseAll(context.Background())

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(cfg, sessions),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // rows are streamed
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting grid HTTP server",
		"addr", cfg.Addr,
		"tls", cfg.TLSCertFile != "",
		"auth", len(cfg.Tokens) > 0,
		"cors", cfg.EnableCORS,
	)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down grid HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	}()

	var serverErr error
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		serverErr = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		serverErr = server.ListenAndServe()
	}

	if serverErr != nil && serverErr != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", serverErr)
	}
	return nil
}
