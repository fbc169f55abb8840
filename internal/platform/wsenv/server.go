// Package wsenv serves environments over websockets. Every connection gets
// its own environment; clients send JSON requests (start, step, observe,
// property access) and receive one JSON response per request.
package wsenv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/env"
)

const shutdownTimeout = 5 * time.Second

// Config holds configuration for the environment server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8090").
	Address string

	// Settings are applied to every environment before Init.
	Settings map[string]string

	Generator config.GeneratorConfig
	Render    config.RenderConfig
}

// DefaultConfig returns a config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Address:   ":8090",
		Generator: config.DefaultGeneratorConfig(),
		Render:    config.DefaultRenderConfig(),
	}
}

// Server accepts websocket clients on /ws.
type Server struct {
	config   Config
	source   env.LevelSource
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates a server. source may be nil.
func NewServer(cfg Config, source env.LevelSource) *Server {
	return &Server{
		config: cfg,
		source: source,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tilelab-env",
		}),
	}
}

// SetLogger replaces the default logger.
func (s *Server) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// NewEnv creates and initialises an environment with the server settings.
func (s *Server) NewEnv() (*env.Env, error) {
	e := env.New(s.config.Generator, s.config.Render)
	if s.source != nil {
		e.SetLevelSource(s.source)
	}
	keys := make([]string, 0, len(s.config.Settings))
	for k := range s.config.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := e.Setting(k, s.config.Settings[k]); err != nil {
			return nil, err
		}
	}
	if err := e.Init(); err != nil {
		return nil, err
	}
	return e, nil
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWebsocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	e, err := s.NewEnv()
	if err != nil {
		s.logger.Error("cannot create environment", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.logger.Info("client connected", "remote", r.RemoteAddr)
	if err := newSession(e, conn, s.logger).run(r.Context()); err != nil {
		s.logger.Warn("client dropped", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.Info("starting environment server", "address", s.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("wsenv: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
