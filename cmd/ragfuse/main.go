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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/config"
	"github.com/kailas-cloud/ragfuse/internal/credentials"
	"github.com/kailas-cloud/ragfuse/internal/domain"
	logpkg "github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/metrics"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
	"github.com/kailas-cloud/ragfuse/internal/repository/corpus"
	"github.com/kailas-cloud/ragfuse/internal/repository/embcache"
	"github.com/kailas-cloud/ragfuse/internal/repository/kv"
	"github.com/kailas-cloud/ragfuse/internal/repository/session"
	chiTransport "github.com/kailas-cloud/ragfuse/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/ragfuse/internal/transport/openai"
	qdrantTransport "github.com/kailas-cloud/ragfuse/internal/transport/qdrant"
	"github.com/kailas-cloud/ragfuse/internal/usecase/answer"
	"github.com/kailas-cloud/ragfuse/internal/usecase/expansion"
	"github.com/kailas-cloud/ragfuse/internal/usecase/fusion"
	healthuc "github.com/kailas-cloud/ragfuse/internal/usecase/health"
	"github.com/kailas-cloud/ragfuse/internal/usecase/reasoning"
	"github.com/kailas-cloud/ragfuse/internal/usecase/reflection"
	"github.com/kailas-cloud/ragfuse/internal/usecase/router"
	"github.com/kailas-cloud/ragfuse/internal/version"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragfuse API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("sessions_store", cfg.Sessions.Store),
		zap.String("corpus_backend", cfg.Corpus.Backend),
	)

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterModelMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Prompt library with config overrides
	prompts := prompt.Default()
	for name, text := range cfg.Prompts {
		if err := prompts.Override(name, text); err != nil {
			logger.Fatal("Invalid prompt override", zap.String("name", name), zap.Error(err))
		}
	}

	ctx := context.Background()

	// Session store and shared KV store
	var (
		kvStore  kv.Store
		sessions answer.SessionStore
		pinger   healthuc.Pinger
	)
	switch cfg.Sessions.Store {
	case "redis":
		redisStore, err := kv.NewRedis(kv.RedisConfig{
			Addrs:    cfg.Sessions.Addrs,
			Username: cfg.Sessions.Username,
			Password: cfg.Sessions.Password,
			DB:       cfg.Sessions.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer redisStore.Close()

		readiness := time.Duration(cfg.Sessions.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Sessions.Addrs))

		kvStore = redisStore
		ttl := time.Duration(cfg.Sessions.TTLSec) * time.Second
		sessions = session.NewKV(redisStore, cfg.Sessions.KeyPrefix, ttl)
		pinger = redisStore
	default:
		mem := session.NewMemory()
		sessions = mem
		pinger = mem
	}

	// Model and embedding credentials: round-robin rotation over key lists.
	modelCreds, err := credentials.NewRotating(cfg.Model.APIKeys)
	if err != nil {
		logger.Fatal("Invalid model api keys", zap.Error(err))
	}
	embKeys := cfg.Embedding.APIKeys
	if len(embKeys) == 0 {
		embKeys = cfg.Model.APIKeys
	}
	embCreds, err := credentials.NewRotating(embKeys)
	if err != nil {
		logger.Fatal("Invalid embedding api keys", zap.Error(err))
	}

	model := openaiTransport.NewModel(&openaiTransport.ModelConfig{
		BaseURL:     cfg.Model.BaseURL,
		Credentials: modelCreds,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     time.Duration(cfg.Model.TimeoutSec) * time.Second,
		Provider:    cfg.Model.Provider,
		Logger:      logger,
	})

	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		BaseURL:     cfg.Embedding.BaseURL,
		Credentials: embCreds,
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		Timeout:     time.Duration(cfg.Model.TimeoutSec) * time.Second,
		Provider:    cfg.Embedding.Provider,
		Logger:      logger,
	})
	if cfg.Embedding.Cache.Enabled && kvStore != nil {
		embedder = embcache.New(embedder, kvStore, cfg.Sessions.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
		logger.Info("Embedding cache enabled")
	}

	// Corpus: both retrieval signals plus the health sizer
	var (
		lexical  fusion.LexicalSearcher
		semantic fusion.SemanticSearcher
		sizer    healthuc.CorpusSizer
	)
	switch cfg.Corpus.Backend {
	case "qdrant":
		searcher, err := qdrantTransport.New(&qdrantTransport.Config{
			Host:       cfg.Corpus.Qdrant.Host,
			Port:       cfg.Corpus.Qdrant.Port,
			APIKey:     cfg.Corpus.Qdrant.APIKey,
			UseTLS:     cfg.Corpus.Qdrant.UseTLS,
			Collection: cfg.Corpus.Qdrant.Collection,
			Embedder:   embedder,
			Logger:     logger,
		})
		if err != nil {
			logger.Fatal("Failed to create qdrant searcher", zap.Error(err))
		}
		defer func() { _ = searcher.Close() }()
		semantic = searcher
		sizer = searcher

		lex := corpus.NewLexical()
		if cfg.Corpus.Path != "" {
			n, err := lex.LoadJSONL(cfg.Corpus.Path)
			if err != nil {
				logger.Fatal("Failed to load corpus seed", zap.Error(err))
			}
			logger.Info("Lexical index loaded", zap.Int("documents", n))
		}
		lexical = lex
	default:
		snap := corpus.New(embedder)
		if cfg.Corpus.Path != "" {
			n, err := snap.LoadJSONL(ctx, cfg.Corpus.Path)
			if err != nil {
				logger.Fatal("Failed to load corpus seed", zap.Error(err))
			}
			logger.Info("Corpus loaded", zap.Int("documents", n))
		}
		lexical = snap
		semantic = snap
		sizer = snap
	}

	// Use case services
	var retriever expansion.Retriever = fusion.New(lexical, semantic, fusion.Config{
		K:     cfg.Retrieval.K,
		Alpha: cfg.Retrieval.Alpha,
	})
	if cfg.Retrieval.Hyde {
		retriever = expansion.NewHyde(model, retriever, prompts)
		logger.Info("Hypothetical document augmentation enabled")
	}
	expander := expansion.New(model, retriever, prompts, expansion.Config{
		VariantCount: cfg.Retrieval.VariantCount,
		Strategy:     expansion.Strategy(cfg.Retrieval.Merge),
		RRFK:         cfg.Retrieval.RRFK,
	})
	questionRouter := router.New(model, prompts)
	reflector := reflection.New(model, prompts, cfg.Retrieval.ReflectTurns)
	reasoner := reasoning.New(model, prompts)

	pipeline := answer.NewPipeline(
		questionRouter, reflector, expander, answer.Lexical{}, reasoner,
		model, sessions, prompts,
	)

	healthSvc := healthuc.New(pinger, model, sizer)

	server := chiTransport.NewServer(pipeline, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

	logger.Info("Server stopped gracefully")
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
