package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/analytics"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/evaluator"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher/cache"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher/handler"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/synonym"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/config"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/health"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/kafka"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/logger"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/metrics"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/middleware"
	pkgpostgres "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/postgres"
	pkgredis "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting query service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	memIndex := index.NewMemory()
	var synonyms query.SynonymSource = synonym.NewStatic()

	var pgClient *pkgpostgres.Client
	pgClient, err = pkgpostgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, running with an empty in-memory index", "error", err)
		pgClient = nil
	} else {
		defer pgClient.Close()
		store := index.NewStore(pgClient)
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure postings schema", "error", err)
			os.Exit(1)
		}
		loaded, err := store.LoadInto(ctx, memIndex)
		if err != nil {
			slog.Error("failed to load postings", "error", err)
			os.Exit(1)
		}
		slog.Info("postings loaded", "postings", loaded, "terms", memIndex.TermCount())

		synStore := synonym.NewStore(pgClient)
		if err := synStore.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure synonyms schema", "error", err)
			os.Exit(1)
		}
		synonyms = synStore
		slog.Info("synonym store enabled")
	}

	var resultCache *cache.ResultCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.QueryEvents)

	aggregator := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents, analytics.HandleEvent(aggregator))
	go func() {
		if err := aggregator.Start(ctx, consumer); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()
	slog.Info("analytics aggregator started")

	planner := query.NewPlanner(memIndex, synonyms, cfg.Query)
	eval := evaluator.New(memIndex, m, cfg.Query.MaxEvalParallelism)
	search := searcher.New(planner, eval, m)
	h := handler.New(search, resultCache, collector, memIndex, m)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d terms, %d documents", memIndex.TermCount(), memIndex.DocCount()),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if pgClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("POST /api/v1/documents", h.IndexDocument)
	mux.HandleFunc("GET /api/v1/analytics", aggregator.StatsHandler())
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("GET /metrics", metrics.Handler())
		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metricsMux,
		}
		go func() {
			slog.Info("metrics server listening", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			_ = metricsServer.Close()
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("query service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("query service stopped")
}
