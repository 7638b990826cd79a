package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/config"
	"github.com/jaminalder/tictactoe-ai/internal/stats"
	"github.com/jaminalder/tictactoe-ai/internal/web"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	addr       = flag.String("addr", "", "listen address, overrides config")
	statsPath  = flag.String("stats", "", "statistics file, overrides config")
	logLevel   = flag.String("log-level", "", "debug|info|warn|error, overrides config")
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if level == "debug" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *statsPath != "" {
		cfg.StatsPath = *statsPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	defer log.Sync()

	store, err := stats.OpenFile(cfg.StatsPath)
	if err != nil {
		log.Fatal("open statistics", zap.String("path", cfg.StatsPath), zap.Error(err))
	}
	svc := app.NewService(ai.NewOpponent(nil), store, log)
	handler := web.NewServer(svc, log,
		web.WithDefaultTier(cfg.Tier()),
		web.WithHeartbeat(cfg.Heartbeat),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.String("stats", store.Path()),
		zap.Stringer("default_tier", cfg.Tier()),
	)
	select {
	case <-sigCtx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-serverErr:
		if ok {
			log.Error("server error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("graceful shutdown failed", zap.Error(err))
		_ = srv.Close()
	}
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString("tictactoe: " + err.Error() + "\n")
	os.Exit(1)
}
