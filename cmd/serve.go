package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/shagarchive/shagqa/internal/api"
	"github.com/shagarchive/shagqa/internal/archive"
	"github.com/shagarchive/shagqa/internal/chat"
	"github.com/shagarchive/shagqa/internal/config"
	"github.com/shagarchive/shagqa/internal/knowledge"
	"github.com/shagarchive/shagqa/internal/log"
	"github.com/shagarchive/shagqa/internal/quota"
	"github.com/shagarchive/shagqa/internal/security"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute // model calls dominate response latency
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// upstreamCallsPerSecond is the proactive client-side cap on model calls,
// shared across all in-flight requests.
const upstreamCallsPerSecond = 1.0

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: parseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting archive Q&A server", "version", Version)

	// Load the archive. The CSV is required; rule documents are best-effort.
	loader := archive.NewLoader(cfg.CSVPath, cfg.DataDir, archive.DefaultDocuments(),
		logger.With("component", "archive"))
	if err := loader.Load(); err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	// The knowledge base is built before the server accepts any query and
	// swapped atomically on reload.
	kbCfg := knowledge.Config{ExcerptBudget: cfg.ExcerptBudget}
	var kb atomic.Value
	kb.Store(knowledge.Build(loader.Records(), loader.Documents(), kbCfg))
	logger.Info("knowledge base built", "chars", len(kb.Load().(string)))

	// SIGHUP triggers an administrative reload of the dataset and a rebuild
	// of the knowledge base.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				if err := loader.Load(); err != nil {
					logger.Error("reload failed, keeping previous snapshot", "error", err)
					continue
				}
				kb.Store(knowledge.Build(loader.Records(), loader.Documents(), kbCfg))
				logger.Info("archive reloaded and knowledge base rebuilt")
			}
		}
	}()

	// Model client. A missing credential is not fatal: the service runs and
	// answers with the fixed configuration message.
	var gen chat.Generator
	if cfg.APIKey != "" {
		gemini, err := chat.NewGemini(ctx, cfg.APIKey, cfg.ModelName,
			rate.NewLimiter(rate.Limit(upstreamCallsPerSecond), cfg.RateLimit))
		if err != nil {
			return fmt.Errorf("creating model client: %w", err)
		}
		gen = gemini
		logger.Info("model client configured", "model", cfg.ModelName)
	} else {
		logger.Warn("GEMINI_API_KEY not set, model calls disabled")
	}

	counter, err := quota.Open(cfg.QuotaDBPath, cfg.DailyLimit,
		logger.With("component", "quota"))
	if err != nil {
		return fmt.Errorf("opening quota store: %w", err)
	}
	defer func() {
		if closeErr := counter.Close(); closeErr != nil {
			logger.Warn("closing quota store", "error", closeErr)
		}
	}()

	chatHandler := chat.NewHandler(chat.Config{
		Generator:   gen,
		Knowledge:   func() string { return kb.Load().(string) },
		Sample:      func() []archive.ContestRecord { return loader.Sample(cfg.SampleSize) },
		CallTimeout: cfg.CallTimeout(),
		CacheTTL:    cfg.CacheTTL(),
		Logger:      logger.With("component", "chat"),
	})

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Loader:      loader,
		Knowledge:   func() string { return kb.Load().(string) },
		Chat:        chatHandler,
		RateLimiter: security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow()),
		Quota:       counter,
		TrustProxy:  cfg.TrustProxy,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", cfg.Addr,
		"records", len(loader.Records()),
		"model_configured", gen != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
