// Package main is the entry point for the FinSight invoice analyzer server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/finsight-api/internal/config"
	"github.com/Shimizu-Technology/finsight-api/internal/handlers"
	"github.com/Shimizu-Technology/finsight-api/internal/logger"
	"github.com/Shimizu-Technology/finsight-api/internal/router"
	"github.com/Shimizu-Technology/finsight-api/internal/services/invoice"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	log = log.With().Str("version", Version).Logger()

	log.Info().
		Str("port", cfg.Port).
		Str("gin_mode", cfg.GinMode).
		Str("table_backend", cfg.TableBackend).
		Str("pdf_validation", cfg.PDFValidation).
		Int("max_upload_mb", cfg.MaxUploadMB).
		Msg("FinSight Invoice Analyzer starting")

	gin.SetMode(cfg.GinMode)

	// Step 2: Create Services
	opener, err := pdf.NewOpener(cfg.PDFOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create PDF opener")
	}
	summarizer := invoice.New(opener)

	// Step 3: Setup HTTP Router
	h := handlers.NewHandler(summarizer, cfg.MaxUploadBytes(), Version, cfg.TableBackend, cfg.PDFValidation)
	r := router.Setup(h, log)

	// Step 4: Start the HTTP Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second, // uploads can be large
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on http://localhost:%s", cfg.Port)
		log.Info().Msgf("API docs: http://localhost:%s/docs", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Step 5: Graceful Shutdown
	waitForShutdown(srv, time.Duration(cfg.ShutdownTimeout)*time.Second, log)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then gives in-flight
// requests up to timeout to finish.
func waitForShutdown(srv *http.Server, timeout time.Duration, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
