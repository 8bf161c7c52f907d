// Package main is the entrypoint for the due-diligence API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/ai"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/api"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/handler"
	mw "github.com/HumbledDS/dd-intelligence-assistant/internal/api/middleware"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/api/response"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/cache"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/bodacc"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/dinum"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/infogreffe"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/insee"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/news"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/config"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/jobs"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/rag"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/report"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	janitorInterval = 5 * time.Minute
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — .env is optional, env vars win
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Chunk store: Postgres with pgvector when configured, in-memory
	// otherwise. Without a database, retrieval does not survive restarts.
	var chunkStore rag.ChunkStore
	var pgStore *store.PostgresStore
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		pgStore = store.NewPostgresStore(pool)
		chunkStore = pgStore
		slog.Info("database connected, migrations applied")
	} else {
		chunkStore = rag.NewMemoryStore()
		slog.Warn("DATABASE_URL not set, using in-memory chunk store")
	}

	// 3. Two-tier cache. A down Redis degrades lookups to the local tier,
	// so a failed ping is not fatal.
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, cache degraded to local tier", "error", err)
	} else {
		slog.Info("redis connected")
	}

	local := cache.NewLocal(cfg.Cache.LocalMaxEntries)
	tiered := cache.NewTiered(local, redisCache, cfg.Cache.LocalTTLCap)

	// 4. AI providers
	synthesizer, embedder, err := ai.NewProviders(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI providers: %w", err)
	}
	slog.Info("AI providers initialized", "synthesizer", synthesizer.Name(), "embedder", embedder.Name())

	// 5. Collectors
	cc := cfg.Collectors
	dinumClient := dinum.NewClient(cc.DinumBaseURL, cc.Timeout)
	collectors := report.Collectors{
		Identity:         dinumClient,
		IdentityFallback: insee.NewClient(cc.InseeBaseURL, cc.InseeAPIKey, cc.Timeout),
		Financial:        infogreffe.NewClient(cc.InfogreffeBaseURL, cc.Timeout),
		Notices:          bodacc.NewClient(cc.BodaccBaseURL, cc.Timeout),
		News:             news.NewClient(cc.NewsBaseURL, cc.NewsAPIKey, cc.Timeout),
	}

	// 6. Jobs, pipeline and retrieval
	jobStore := jobs.NewStore(cfg.Pipeline.JobRetention)
	ingestor := rag.NewIngestor(embedder, chunkStore, cfg.AI.InferenceTimeout)
	retriever := rag.NewRetriever(embedder, chunkStore, cfg.AI.InferenceTimeout)
	svc := report.NewService(jobStore, tiered, collectors, synthesizer, ingestor,
		cfg.Pipeline.PhaseTimeout, cfg.AI.InferenceTimeout)

	go janitor(ctx, jobStore, local)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, 60),

		HealthHandler:         healthHandler(pgStore, tiered),
		SearchHandler:         handler.NewSearchHandler(dinumClient, tiered),
		CompanyHandler:        handler.NewCompanyHandler(dinumClient, tiered),
		GenerateReportHandler: handler.NewGenerateReportHandler(svc),
		PollReportHandler:     handler.NewPollReportHandler(jobStore),
		StreamReportHandler:   handler.NewStreamReportHandler(jobStore),
		RetrieveChunksHandler: handler.NewRetrieveChunksHandler(retriever),
	}
	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// janitor periodically drops expired jobs and expired local cache entries.
func janitor(ctx context.Context, jobStore *jobs.Store, local *cache.Local) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := jobStore.EvictExpired(); n > 0 {
				slog.Info("evicted expired jobs", "count", n)
			}
			local.PurgeExpired()
		}
	}
}

// healthHandler checks cache and, when configured, database connectivity.
func healthHandler(pg *store.PostgresStore, tiered *cache.Tiered) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache": "ok",
		}
		if err := tiered.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}
		if pg != nil {
			checks["database"] = "ok"
			if err := pg.Ping(r.Context()); err != nil {
				checks["database"] = "degraded"
			}
		} else {
			checks["database"] = "disabled"
		}

		for _, status := range checks {
			if status == "degraded" {
				response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
					"One or more services degraded", checks)
				return
			}
		}
		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
