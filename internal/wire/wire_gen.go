//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

// 本文件按 wire.go 中的注入器手工维护，与 wire 的输出保持一致；
// 修改 wire.go 后运行 go generate ./internal/wire 重新生成。

package wire

import (
	"context"

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
	store, cleanup, err := ProvideStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client, cleanup2, err := ProvideRedisClientOptional(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	healthHandler := ProvideHealthHandler(store, client, cfg)
	projectRepository := ProvideProjectRepository(store)
	sectionRepository := ProvideSectionRepository(store)
	transactor := ProvideTransactor(store)
	service := project.NewService(projectRepository, sectionRepository, transactor)
	projectHandler := handler.NewProjectHandler(service)
	chatModelFactory := ProvideChatModelFactory(cfg)
	generator := generation.NewFromConfig(cfg, chatModelFactory)
	eventPublisher := ProvideSectionEventPublisherOptional(client, cfg)
	manager := section.NewManager(sectionRepository, projectRepository, generator, eventPublisher, cfg)
	sectionHandler := handler.NewSectionHandler(manager, service)
	planner := outline.NewPlanner(generator)
	generationHandler := handler.NewGenerationHandler(planner, generator)
	renderer := ProvideRenderer()
	exportService := export.NewService(projectRepository, sectionRepository, renderer)
	exportHandler := handler.NewExportHandler(exportService)
	handlers := &router.Handlers{
		Health:     healthHandler,
		Project:    projectHandler,
		Section:    sectionHandler,
		Generation: generationHandler,
		Export:     exportHandler,
	}
	rateLimiter := ProvideRateLimiterOptional(client)
	routerRouter := router.New(cfg, handlers, rateLimiter)
	return routerRouter, func() {
		cleanup2()
		cleanup()
	}, nil
}

// InitializeStore 仅初始化存储层（用于 bootstrap）
func InitializeStore(ctx context.Context, cfg *config.Config) (*Store, func(), error) {
	store, cleanup, err := ProvideStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		cleanup()
	}, nil
}
