package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/config"
	"github.com/nao1215/qrguard/internal/server"
)

// shutdownTimeout bounds graceful shutdown of the HTTP backend.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend for mobile and web clients",
		Long: `Serve exposes scanning, fraud cases and the quiz over a small JSON API so
that clients never hold the Gemini API key.

Endpoints:
  GET  /health            liveness probe
  POST /api/scan/text     {"text": "..."}
  POST /api/scan/image    {"image": "data:image/jpeg;base64,..."} or a raw image/* body
  GET  /api/cases         five fraud case studies
  GET  /api/quiz          one quiz question (204 when unavailable)
  POST /api/quiz/grade    {"question": {...}, "choice": 0}

Examples:
  qrguard serve
  qrguard serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to Gemini")

	return cmd
}

// runServeCmd executes the serve command until interrupted.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	client, err := newClassifier(ctx, cfg, logger)
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		Service:       client,
		MaxBodyBytes:  maxBodyBytes(cfg.MaxImageSize),
		MaxImageBytes: cfg.MaxImageSize,
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		logger.Warn("quiz answers will not be recorded", "error", err)
	} else {
		defer lib.Close()
		deps.Quiz = lib
	}

	srv := server.New(logger, cfg.ServerAddr, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

// maxBodyBytes is the request body limit for images of up to imageSize
// bytes sent as base64 in JSON.
func maxBodyBytes(imageSize int64) int64 {
	return imageSize/3*4 + 1<<20
}
