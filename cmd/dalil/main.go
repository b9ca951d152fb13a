package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/config"
	dbRedis "github.com/bayanapps/dalil/internal/db/redis"
	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/enrich"
	logpkg "github.com/bayanapps/dalil/internal/logger"
	"github.com/bayanapps/dalil/internal/metrics"
	jinaprov "github.com/bayanapps/dalil/internal/provider/jina"
	openaiprov "github.com/bayanapps/dalil/internal/provider/openai"
	"github.com/bayanapps/dalil/internal/repository/embcache"
	entryrepo "github.com/bayanapps/dalil/internal/repository/entry"
	jobrepo "github.com/bayanapps/dalil/internal/repository/job"
	metadatarepo "github.com/bayanapps/dalil/internal/repository/metadata"
	chiTransport "github.com/bayanapps/dalil/internal/transport/chi"
	embeddinguc "github.com/bayanapps/dalil/internal/usecase/embedding"
	healthuc "github.com/bayanapps/dalil/internal/usecase/health"
	reindexuc "github.com/bayanapps/dalil/internal/usecase/reindex"
	searchuc "github.com/bayanapps/dalil/internal/usecase/search"
	"github.com/bayanapps/dalil/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dalil API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("provider", cfg.Provider.Name),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterProviderMetrics()
	metrics.RegisterSearchMetrics()

	// Build the active provider and its decorator chain
	embedder, reranker, providerHealth := buildProvider(cfg.Provider, store, logger)
	if embedder == nil {
		logger.Warn("No embedding provider configured; search serves empty pages, reindex jobs fail")
	}

	vectorDim := cfg.Provider.Dimensions
	if vectorDim <= 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}

	entryRepo := entryrepo.New(store, vectorDim).WithHNSW(entryrepo.HNSWConfig{
		M:           cfg.Provider.HNSWM,
		EFConstruct: cfg.Provider.HNSWEFConstruct,
	})
	metaRepo := metadatarepo.New(store)
	jobRepo := jobrepo.New(store, time.Duration(cfg.Reindex.JobTTLHours)*time.Hour)

	reg, err := metaRepo.LoadRegistry(ctx)
	if err != nil {
		logger.Fatal("Failed to load metadata registry", zap.Error(err))
	}
	if err := entryRepo.EnsureIndex(ctx, reg); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}
	logger.Info("Search index ready",
		zap.String("index", entryrepo.IndexName()),
		zap.Int("dimensions", vectorDim),
		zap.Int("metadata_types", len(reg.Types())))

	var fetcher reindexuc.Fetcher
	if cfg.Enrich.Enabled {
		fetcher = enrich.NewHTTPEnricher(
			time.Duration(cfg.Enrich.TimeoutSec)*time.Second,
			cfg.Enrich.MaxBodyKB,
			logger,
		)
	}

	searchSvc := searchuc.New(entryRepo, metaRepo, embedder, reranker, searchuc.Options{
		BoostIncrement: cfg.Search.BoostIncrement,
		BoostCap:       cfg.Search.BoostCap,
		RerankProvider: cfg.Provider.Name,
		RerankTimeout:  time.Duration(cfg.Provider.RerankTimeoutSec) * time.Second,
		FacetSample:    cfg.Search.FacetSample,
	}, logger)

	reindexSvc := reindexuc.New(entryRepo, jobRepo, metaRepo, embedder, fetcher, reindexuc.Options{
		BatchSize:       cfg.Reindex.BatchSize,
		EntryPause:      time.Duration(cfg.Reindex.EntryPauseMs) * time.Millisecond,
		BatchPause:      time.Duration(cfg.Reindex.BatchPauseMs) * time.Millisecond,
		StalenessMaxAge: time.Duration(cfg.Reindex.StalenessDays) * 24 * time.Hour,
	}, logger)

	healthSvc := healthuc.New(store, providerHealth, entryRepo)

	server := chiTransport.NewServer(searchSvc, reindexSvc, healthSvc, entryRepo, metaRepo, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r, cfg.Auth.AdminKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Let running reindex jobs write their final state.
	reindexSvc.Wait()

	logger.Info("Server stopped gracefully")
}

// buildProvider assembles the decorator chain for the configured provider:
// provider client -> cache -> instrumentation. Returns nil embedder when no
// provider is configured; the service then runs degraded.
func buildProvider(
	cfg config.ProviderConfig, store *dbRedis.Store, logger *zap.Logger,
) (domain.Embedder, domain.Reranker, healthuc.EmbeddingChecker) {
	if cfg.APIKey == "" {
		return nil, nil, nil
	}

	var base domain.Embedder
	var reranker domain.Reranker
	var health healthuc.EmbeddingChecker

	switch cfg.Name {
	case "openai":
		pc := &openaiprov.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			EmbedModel:  cfg.EmbedModel,
			RerankModel: cfg.RerankModel,
			Dimensions:  cfg.Dimensions,
		}
		emb := openaiprov.NewEmbedder(pc)
		base = emb
		health = emb
		if cfg.RerankModel != "" {
			reranker = openaiprov.NewReranker(pc)
		}
	case "jina":
		client := jinaprov.NewClient(jinaprov.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			EmbedModel:  cfg.EmbedModel,
			RerankModel: cfg.RerankModel,
			Dimensions:  cfg.Dimensions,
		})
		emb := jinaprov.NewEmbedder(client)
		base = emb
		health = emb
		if cfg.RerankModel != "" {
			reranker = jinaprov.NewReranker(client)
		}
	default:
		logger.Fatal("Unknown provider", zap.String("name", cfg.Name))
	}

	namespace := cfg.Name + "/" + cfg.EmbedModel
	cached := embcache.New(base, store, namespace,
		time.Duration(cfg.CacheTTLHours)*time.Hour, metrics.EmbeddingCacheTotal, logger)
	instrumented := embeddinguc.NewInstrumentedEmbedder(cached, cfg.Name, cfg.EmbedModel, logger)

	logger.Info("Embedder chain created",
		zap.String("provider", cfg.Name),
		zap.String("model", cfg.EmbedModel),
		zap.Int("dimensions", cfg.Dimensions),
		zap.Bool("rerank", reranker != nil),
	)
	return instrumented, reranker, health
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One canonical log line per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
