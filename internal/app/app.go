// Package app is the composition root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscout/internal/config"
	"github.com/kailas-cloud/jobscout/internal/db"
	"github.com/kailas-cloud/jobscout/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/jobscout/internal/db/redis"
	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/metrics"
	"github.com/kailas-cloud/jobscout/internal/repository/embcache"
	"github.com/kailas-cloud/jobscout/internal/repository/pgsearch"
	searchrepo "github.com/kailas-cloud/jobscout/internal/repository/search"
	openaiTransport "github.com/kailas-cloud/jobscout/internal/transport/openai"
	assistantuc "github.com/kailas-cloud/jobscout/internal/usecase/assistant"
	cataloguc "github.com/kailas-cloud/jobscout/internal/usecase/catalog"
	"github.com/kailas-cloud/jobscout/internal/usecase/constraint"
	"github.com/kailas-cloud/jobscout/internal/usecase/conversation"
	embeddinguc "github.com/kailas-cloud/jobscout/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/jobscout/internal/usecase/health"
	"github.com/kailas-cloud/jobscout/internal/usecase/intent"
	"github.com/kailas-cloud/jobscout/internal/usecase/normalize"
	"github.com/kailas-cloud/jobscout/internal/usecase/ranking"
	"github.com/kailas-cloud/jobscout/internal/usecase/retrieval"
	"github.com/kailas-cloud/jobscout/internal/usecase/selection"
)

// App holds the wired services.
type App struct {
	Assistant *assistantuc.Service
	Health    *healthuc.Service
	Catalog   *cataloguc.Cache
	close     func()
}

// Close releases the database connections.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// backend is the retrieval datastore selected by database.driver.
type backend struct {
	provider retrieval.Provider
	catalog  cataloguc.Source
	pinger   healthuc.DBPinger

	// kv backs the query embedding cache; nil for postgres.
	kv    *dbRedis.Store
	close func()
}

// New connects to the datastore and wires every use case.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	embedder := buildEmbedder(cfg, be.kv, logger)
	chat := openaiTransport.NewCompleter(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     config.Seconds(cfg.LLM.TimeoutSec),
		Logger:      logger,
	})

	cache := cataloguc.NewCache(be.catalog, cataloguc.Options{
		TTL:       config.Seconds(cfg.Catalog.RefreshSec),
		Cities:    cfg.Catalog.Cities,
		Companies: cfg.Catalog.Companies,
	})
	if err := cache.Refresh(ctx); err != nil {
		logger.Warn("Initial catalog refresh failed, starting with static vocabulary", zap.Error(err))
	}

	var threads conversation.ThreadService
	if cfg.Conversation.Store == config.StoreThread {
		threads = openaiTransport.NewThreads(&openaiTransport.ThreadsConfig{
			APIKey:       cfg.LLM.APIKey,
			BaseURL:      cfg.LLM.BaseURL,
			AssistantID:  cfg.Conversation.AssistantID,
			PollInterval: time.Duration(cfg.Conversation.PollIntervalMs) * time.Millisecond,
			PollTimeout:  config.Seconds(cfg.Conversation.PollTimeoutSec),
			Logger:       logger,
		})
	}

	halfLife := time.Duration(cfg.Ranking.RecencyHalfLifeDays * float64(24*time.Hour))
	assistant := assistantuc.New(assistantuc.Components{
		Intent: intent.NewClassifier(
			chat.ForCallSite("intent"), cache, intent.DefaultVocabulary(), cfg.LLM.IntentMaxTokens,
		),
		Normalizer: normalize.New(
			chat.ForCallSite("normalize"), cache, normalize.DefaultDictionary(), cfg.LLM.NormalizeMaxTokens,
		),
		Extractor: constraint.NewExtractor(constraint.DefaultRules().WithCities(cfg.Catalog.Cities)),
		Retriever: retrieval.New(be.provider, embedder, retrieval.Options{
			DefaultMode:    mode.Mode(cfg.Retrieval.DefaultMode),
			Threshold:      cfg.Retrieval.SimilarityThreshold,
			CandidateCount: cfg.Retrieval.CandidateCount,
			MinScore:       cfg.Retrieval.MinScore,
			Timeout:        config.Seconds(cfg.Retrieval.TimeoutSec),
			ConcurrentText: cfg.Retrieval.ConcurrentText,
		}),
		Ranker: ranking.NewRanker(ranking.Options{
			KeywordWeight:   cfg.Ranking.KeywordWeight,
			RelevanceWeight: cfg.Ranking.RelevanceWeight,
			RecencyHalfLife: halfLife,
		}),
		Selector: selection.NewEngine(chat.ForCallSite("selection"), selection.Options{
			FallbackCount: cfg.Selection.FallbackCount,
			MinResults:    cfg.Selection.MinResults,
			MaxResults:    cfg.Selection.MaxResults,
			PoolSize:      cfg.Ranking.SelectionPool,
			MaxTokens:     cfg.LLM.SelectionMaxTokens,
		}),
		Opener:   conversation.NewOpener(cfg.Conversation.Store, threads, cfg.Conversation.HistoryLimit),
		Answerer: conversation.NewAnswerer(chat.ForCallSite("follow_up"), cfg.LLM.FollowUpMaxTokens),
	}, cfg.Ranking.SelectionPool)

	return &App{
		Assistant: assistant,
		Health:    healthuc.New(be.pinger, embeddingHealthChecker{embedder}, chat),
		Catalog:   cache,
		close:     be.close,
	}, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	readiness := config.Seconds(cfg.Database.ReadinessTimeout)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		if err := pool.WaitForReady(ctx, readiness); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres not ready: %w", err)
		}
		repo := pgsearch.New(pool)
		return &backend{provider: repo, catalog: repo, pinger: pool, close: pool.Close}, nil

	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			TextSearch: cfg.Database.Driver == config.DriverRedis,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Database.Driver, err)
		}
		index := cfg.Database.Index
		if index == "" {
			index = domain.PostingIndex
		}
		exists, err := store.IndexExists(ctx, index)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("probe index %q: %w", index, err)
		}
		if !exists {
			store.Close()
			return nil, fmt.Errorf("index %q: %w", index, db.ErrIndexNotFound)
		}
		return &backend{
			provider: searchrepo.New(store, index),
			pinger:   store,
			kv:       store,
			close:    store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
func buildEmbedder(cfg *config.Config, kv *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if kv != nil && cfg.Embedding.CacheTTLSec > 0 {
		embedder = embcache.New(base, kv, embcache.Config{
			Model:      cfg.Embedding.Model,
			TTL:        config.Seconds(cfg.Embedding.CacheTTLSec),
			Dimensions: cfg.Embedding.Dimensions,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model,
		embeddinguc.Options{
			Dimensions: cfg.Embedding.Dimensions,
			Timeout:    config.Seconds(cfg.Embedding.TimeoutSec),
		}, logger,
	)

	// Outermost, so the cache key includes the instruction.
	if cfg.Embedding.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}
	return embedder
}

// embeddingHealthChecker exposes the health check of the outermost embedder, if any.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func (h embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
