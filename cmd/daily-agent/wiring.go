package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"
	"google.golang.org/genai"
	"gorm.io/gorm"

	"portfolio-intelligence/internal/agent/config"
	"portfolio-intelligence/internal/agent/generator"
	"portfolio-intelligence/internal/agent/repository"
	"portfolio-intelligence/internal/agent/service"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/common"
	"portfolio-intelligence/pkg/logger"
	"portfolio-intelligence/pkg/metrics"
	"portfolio-intelligence/pkg/gormlog"
	"portfolio-intelligence/pkg/postgres"
	"portfolio-intelligence/pkg/redis"
	"portfolio-intelligence/pkg/sqlite"
	"portfolio-intelligence/pkg/supabase"
	"portfolio-intelligence/pkg/telegram"
)

// store bundles the two table repositories of the selected backend.
type store struct {
	portfolio    repository.PortfolioRepository
	intelligence repository.IntelligenceRepository
	close        func()
}

func newStore(cfg *config.Config, appLogger *logger.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case "", "supabase":
		client, err := supabase.NewClient(supabase.Config{
			URL:    cfg.Supabase.URL,
			Key:    cfg.Supabase.Key,
			Schema: cfg.Supabase.Schema,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			portfolio:    repository.NewSupabasePortfolioRepository(client),
			intelligence: repository.NewSupabaseIntelligenceRepository(client),
			close:        func() {},
		}, nil

	case "postgres":
		db, err := postgres.NewDB(postgres.Config{
			DSN:             cfg.Database.DSN,
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			portfolio:    repository.NewGormPortfolioRepository(db.DB),
			intelligence: repository.NewGormIntelligenceRepository(db.DB),
			close: func() {
				if sqlDB, err := db.DB.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Store.SQLitePath, gormlog.Level(cfg.Database.LogLevel))
		if err != nil {
			return nil, err
		}
		if err := ensureSQLiteSchema(db); err != nil {
			return nil, err
		}
		appLogger.Info("Using local sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return &store{
			portfolio:    repository.NewGormPortfolioRepository(db),
			intelligence: repository.NewGormIntelligenceRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// ensureSQLiteSchema creates both tables in a fresh local file. Postgres gets them from migrations.
func ensureSQLiteSchema(db *gorm.DB) error {
	err := db.Exec(`CREATE TABLE IF NOT EXISTS portfolio_assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error
	if err != nil {
		return fmt.Errorf("failed to create portfolio_assets: %w", err)
	}
	if err := db.AutoMigrate(&entity.DailyIntelligence{}); err != nil {
		return fmt.Errorf("failed to migrate daily_intelligence: %w", err)
	}
	return nil
}

func newGenerator(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (generator.Generator, error) {
	switch generator.Type(cfg.AI.Provider) {
	case "", generator.TypeStub:
		return generator.NewStubGenerator(appLogger), nil

	case generator.TypeRSS:
		return generator.NewRSSGenerator(appLogger, repository.NewRSSNewsRepository(cfg.RSS, appLogger)), nil

	case generator.TypeGemini:
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		aiRepo, err := repository.NewGeminiAIRepository(cfg.Gemini, appLogger, genAiClient)
		if err != nil {
			return nil, err
		}
		var newsRepo repository.NewsRepository
		if cfg.AI.GroundWithRSS {
			newsRepo = repository.NewRSSNewsRepository(cfg.RSS, appLogger)
		}
		return generator.NewGeminiGenerator(appLogger, aiRepo, newsRepo), nil

	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}

// newDedupRepository returns a nil repository when the guard is disabled.
func newDedupRepository(cfg *config.Config) (repository.DedupRepository, func(), error) {
	if !cfg.Agent.Dedup.Enabled {
		return nil, func() {}, nil
	}
	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}
	return repository.NewRedisDedupRepository(redisClient.Client, cfg.Agent.Dedup.TTL), closeFn, nil
}

// newNotifier returns nil when telegram is disabled or cannot be reached; the digest is best effort.
func newNotifier(cfg *config.Config, appLogger *logger.Logger) telegram.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Warn("Telegram digest disabled", zap.Error(err))
		return nil
	}
	return notifier
}

func newMetricsPusher(cfg *config.Config) service.MetricsPusher {
	if cfg.Metrics.PushgatewayURL == "" {
		return nil
	}
	return metrics.NewPusher(cfg.Metrics.PushgatewayURL, common.MetricsJobName)
}
