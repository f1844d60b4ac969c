package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/uaplan/eventradar/internal/agent"
	"github.com/uaplan/eventradar/internal/api"
	"github.com/uaplan/eventradar/internal/config"
	"github.com/uaplan/eventradar/internal/extract"
	"github.com/uaplan/eventradar/internal/fetch"
	"github.com/uaplan/eventradar/internal/scheduler"
	"github.com/uaplan/eventradar/internal/search"
	"github.com/uaplan/eventradar/internal/store"
	"github.com/uaplan/eventradar/internal/translate"
	"github.com/uaplan/eventradar/internal/validate"
)

func main() {
	cfgPath := flag.String("config", "configs/eventradar.yaml", "Path to YAML config")
	webDir := flag.String("web", "web", "Static dashboard directory (empty disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Secrets come from the environment; .env is a local convenience.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "err", err)
	}

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := store.NewPool(ctx)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := store.NewRepository(pool)

	// ── External clients ──────────────────────────────────────────────────────
	searcher, err := search.NewClient(cfg.Search.BaseURL, os.Getenv("TAVILY_API_KEY"),
		time.Duration(cfg.Search.TimeoutMs)*time.Millisecond)
	if err != nil {
		slog.Error("search client unavailable", "err", err)
		os.Exit(1)
	}
	extractor, err := extract.NewClient(cfg.Extract.BaseURL, os.Getenv("OPENAI_API_KEY"),
		cfg.Extract.Model, time.Duration(cfg.Extract.TimeoutMs)*time.Millisecond)
	if err != nil {
		slog.Error("extraction client unavailable", "err", err)
		os.Exit(1)
	}
	translator := translate.New(extractor)
	fetcher := fetch.New(time.Duration(cfg.Pipeline.FetchTimeoutMs) * time.Millisecond)

	// ── Pipeline and agent ────────────────────────────────────────────────────
	pipeline := validate.New(cfg, fetcher, repo, searcher)
	ag := agent.New(loader, searcher, extractor, translator, pipeline)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		ag.SwapPipeline(validate.New(newCfg, fetcher, repo, searcher))
		slog.Info("config hot-reloaded")
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── Scheduler ─────────────────────────────────────────────────────────────
	sched, err := scheduler.New(cfg.Schedule.Cron, ag)
	if err != nil {
		slog.Error("scheduler setup failed", "err", err)
		os.Exit(1)
	}
	sched.Start()

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(repo, ag, *webDir)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	sched.Stop()
	cancel()
	slog.Info("goodbye")
}
