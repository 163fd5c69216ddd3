package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

// Version is reported by the API root and the CLI.
const Version = "1.0.0"

// App holds the services shared by the HTTP API and the CLI.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Records  repositories.CandidateRepository
	Sessions repositories.SessionRepository
	Screener *services.Screener
	// Index and Indexer are nil when no vector store is configured.
	Index   services.CandidateIndex
	Indexer services.Indexer
	Events  services.EventPublisher
	Log     *zap.Logger

	embedder services.Embedder
}

// New connects the database and builds every configured service. Optional
// integrations that fail to start are logged and left disabled.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	return NewWithDB(ctx, cfg, db, log)
}

func NewWithDB(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		Config:   cfg,
		DB:       db,
		Records:  repositories.NewCandidateRepository(db),
		Sessions: repositories.NewSessionRepository(db),
		Events:   services.NewNoopPublisher(),
		Log:      log,
	}

	strategy, err := services.NewScoreStrategy(cfg.Scoring.Strategy)
	if err != nil {
		return nil, err
	}

	generator, err := a.buildGenerator(ctx)
	if err != nil {
		var missing *models.MissingInputError
		if !errors.As(err, &missing) {
			return nil, err
		}
		log.Warn("language model not configured, scoring is disabled", zap.String("missing", missing.Field))
	}

	archive, err := a.buildArchive(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Events.RabbitMQURL != "" {
		publisher, err := services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, log)
		if err != nil {
			log.Warn("event publishing disabled", zap.Error(err))
		} else {
			a.Events = publisher
		}
	}

	if cfg.Qdrant.URL != "" && a.embedder != nil {
		index, err := services.NewQdrantIndex(ctx, services.QdrantOptions{
			URL:          cfg.Qdrant.URL,
			APIKey:       cfg.Qdrant.APIKey,
			Collection:   cfg.Qdrant.Collection,
			VectorSize:   cfg.Qdrant.VectorSize,
			ChunkSize:    cfg.Indexer.ChunkSize,
			ChunkOverlap: cfg.Indexer.Overlap,
		}, a.embedder, log)
		if err != nil {
			log.Warn("candidate index disabled", zap.Error(err))
		} else {
			a.Index = index
			a.Indexer = services.NewIndexer(index, cfg.Indexer.Concurrency, cfg.Indexer.QueueSize, log)
			a.Indexer.Start(ctx)
		}
	}

	deps := services.ScreenerDeps{
		Records:  a.Records,
		Sessions: a.Sessions,
		Strategy: strategy,
		Archive:  archive,
		Events:   a.Events,
		Location: cfg.SessionLocation(),
		Log:      log,
	}
	if generator != nil {
		deps.Generator = generator
	}
	if a.Indexer != nil {
		deps.Indexer = a.Indexer
	}
	a.Screener = services.NewScreener(deps)

	log.Info("application initialized",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("score_strategy", strategy.Name()),
		zap.Bool("index_enabled", a.Index != nil),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	return a, nil
}

// Board returns a fresh workflow board for one job title.
func (a *App) Board(jobTitle string) *services.WorkflowBoard {
	return services.NewWorkflowBoard(jobTitle, a.Records, a.Events, a.Log)
}

func (a *App) Close() {
	if a.Indexer != nil {
		a.Indexer.Stop()
	}
	if err := a.Events.Close(); err != nil {
		a.Log.Warn("failed to close event publisher", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	a.Log.Sync()
}

func (a *App) buildGenerator(ctx context.Context) (services.Generator, error) {
	cfg := a.Config

	// Embeddings always come from Gemini, whichever provider scores.
	gemini, geminiErr := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		EmbedModel:  cfg.Gemini.EmbedModel,
		Backend:     cfg.Gemini.Backend,
		Project:     cfg.Gemini.Project,
		Location:    cfg.Gemini.Location,
		Temperature: cfg.Gemini.Temperature,
	}, a.Log)
	if geminiErr == nil {
		a.embedder = gemini
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openrouter":
		openRouter, err := services.NewOpenRouterService(services.OpenRouterOptions{
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
			BaseURL: cfg.OpenRouter.BaseURL,
			Timeout: cfg.OpenRouter.Timeout,
		}, a.Log)
		if err != nil {
			return nil, err
		}
		return openRouter, nil
	default:
		if geminiErr != nil {
			return nil, geminiErr
		}
		return gemini, nil
	}
}

func (a *App) buildArchive(ctx context.Context) (services.DocumentArchive, error) {
	cfg := a.Config

	switch strings.ToLower(cfg.Storage.Backend) {
	case "local":
		archive, err := services.NewLocalArchive(cfg.Storage.UploadPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local archive: %w", err)
		}
		return archive, nil
	case "s3":
		archive, err := services.NewS3Archive(ctx, services.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 archive: %w", err)
		}
		return archive, nil
	default:
		return nil, nil
	}
}
