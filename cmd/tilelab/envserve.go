package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/env"
	"github.com/vovakirdan/tilelab/internal/platform/wsenv"
	"github.com/vovakirdan/tilelab/internal/storage"
)

var (
	flagEnvAddr  string
	flagEnvSet   []string
	flagEnvCache bool
)

var envServeCmd = &cobra.Command{
	Use:   "env-serve",
	Short: "Serve environments over websockets",
	Long: `Start an HTTP server that hands every websocket client on /ws its own
pushbox environment. Clients send JSON requests (specs, start, step,
observe, read, write, list) and receive JSON responses. /healthz reports
liveness.

Settings given with --set are applied to every environment before it is
initialised. Keys: width, height, numBoxes, roomSteps, layout, maxSteps,
spriteSize.

Examples:
  tilelab env-serve
  tilelab env-serve --addr :9000 --set width=12 --set numBoxes=3
  tilelab env-serve --set spriteSize=4 --cache`,
	RunE: runEnvServe,
}

func init() {
	envServeCmd.Flags().StringVar(&flagEnvAddr, "addr", ":8090", "HTTP listen address (host:port)")
	envServeCmd.Flags().StringArrayVar(&flagEnvSet, "set", nil, "Environment setting key=value (repeatable)")
	envServeCmd.Flags().BoolVar(&flagEnvCache, "cache", false, "Reuse and store generated levels in the database")
	envServeCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom generator config YAML")
}

func runEnvServe(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilelab-env",
	})

	cfg := wsenv.DefaultConfig()
	cfg.Address = flagEnvAddr
	cfg.Settings = make(map[string]string, len(flagEnvSet))
	for _, pair := range flagEnvSet {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid setting %q: expected key=value", pair)
		}
		cfg.Settings[key] = value
	}

	var err error
	if cfg.Generator, err = config.LoadGenerator(flagConfig); err != nil {
		return err
	}
	if cfg.Render, err = config.LoadRender(flagRenderConfig); err != nil {
		return err
	}

	var source env.LevelSource
	if flagEnvCache {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		source = store
	}

	server := wsenv.NewServer(cfg, source)
	server.SetLogger(logger)

	// Reject bad settings before accepting clients.
	if _, err := server.NewEnv(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting environment server", "address", cfg.Address)
	return server.ListenAndServe(ctx)
}
