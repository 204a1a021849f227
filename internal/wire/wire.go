//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ai-doc-platform-api/internal/application/export"
	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/application/outline"
	"ai-doc-platform-api/internal/application/project"
	"ai-doc-platform-api/internal/application/section"
	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/interfaces/http/handler"
	"ai-doc-platform-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StoreSet,
		RedisSet,
		GenerationSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeStore 仅初始化存储层（用于 bootstrap）
func InitializeStore(ctx context.Context, cfg *config.Config) (*Store, func(), error) {
	wire.Build(ProvideStore)
	return nil, nil, nil
}

// StoreSet 存储提供者集合
var StoreSet = wire.NewSet(
	ProvideStore,
	ProvideProjectRepository,
	ProvideSectionRepository,
	ProvideTransactor,
)

// RedisSet 可选 Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiterOptional,
	ProvideSectionEventPublisherOptional,
)

// GenerationSet 内容生成提供者集合
var GenerationSet = wire.NewSet(
	ProvideChatModelFactory,
	generation.NewFromConfig,
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	outline.NewPlanner,
	section.NewManager,
	project.NewService,
	ProvideRenderer,
	export.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewProjectHandler,
	handler.NewSectionHandler,
	handler.NewGenerationHandler,
	handler.NewExportHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
