package wire

import (
	"context"
	"fmt"

	"ai-doc-platform-api/internal/application/document"
	"ai-doc-platform-api/internal/application/section"
	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/repository"
	"ai-doc-platform-api/internal/infrastructure/llm"
	"ai-doc-platform-api/internal/infrastructure/messaging"
	"ai-doc-platform-api/internal/infrastructure/persistence/postgres"
	"ai-doc-platform-api/internal/infrastructure/persistence/redis"
	"ai-doc-platform-api/internal/infrastructure/persistence/sqlite"
	"ai-doc-platform-api/internal/interfaces/http/handler"
	"ai-doc-platform-api/internal/interfaces/http/middleware"
	workflowport "ai-doc-platform-api/internal/workflow/port"
	"ai-doc-platform-api/pkg/logger"
)

// Store 按 database.driver 选定的存储实现
type Store struct {
	Driver   string
	Projects repository.ProjectRepository
	Sections repository.SectionRepository
	Tx       repository.Transactor
	Health   handler.HealthChecker

	// Postgres 仅在 driver=postgres 时非空，供 bootstrap 迁移
	Postgres *postgres.Client
}

// ProvideStore 打开数据库并组装仓储
func ProvideStore(ctx context.Context, cfg *config.Config) (*Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		client, err := postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		store := &Store{
			Driver:   config.DriverPostgres,
			Projects: postgres.NewProjectRepository(client),
			Sections: postgres.NewSectionRepository(client),
			Tx:       postgres.NewTxManager(client),
			Health:   client,
			Postgres: client,
		}
		return store, func() { _ = client.Close() }, nil

	case config.DriverSQLite, "":
		client, err := sqlite.NewClient(ctx, &cfg.Database.SQLite)
		if err != nil {
			return nil, nil, err
		}
		store := &Store{
			Driver:   config.DriverSQLite,
			Projects: sqlite.NewProjectRepository(client),
			Sections: sqlite.NewSectionRepository(client),
			Tx:       sqlite.NewTxManager(client),
			Health:   client,
		}
		return store, func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// ProvideProjectRepository 提供项目仓储
func ProvideProjectRepository(s *Store) repository.ProjectRepository {
	return s.Projects
}

// ProvideSectionRepository 提供段落仓储
func ProvideSectionRepository(s *Store) repository.SectionRepository {
	return s.Sections
}

// ProvideTransactor 提供事务管理器
func ProvideTransactor(s *Store) repository.Transactor {
	return s.Tx
}

// ProvideRedisClientOptional 可选 Redis（未启用或不可达时返回 nil，不阻塞启动）
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, rate limiting and section events disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiterOptional 无 Redis 时返回 nil 接口
func ProvideRateLimiterOptional(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideSectionEventPublisherOptional 无 Redis 时返回 nil 接口
func ProvideSectionEventPublisherOptional(client *redis.Client, cfg *config.Config) section.EventPublisher {
	if client == nil {
		return nil
	}
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(client.Redis(), int64(maxLen), messaging.Stream(cfg.Messaging.RedisStream.SectionStream))
}

// ProvideChatModelFactory 提供按名称解析的聊天模型工厂
func ProvideChatModelFactory(cfg *config.Config) workflowport.ChatModelFactory {
	return llm.NewEinoFactory(cfg)
}

// ProvideRenderer 提供默认样式的文档渲染器
func ProvideRenderer() *document.Renderer {
	return document.NewRenderer()
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(s *Store, client *redis.Client, cfg *config.Config) *handler.HealthHandler {
	return handler.NewHealthHandler(s.Health, client, cfg.App.Version)
}
