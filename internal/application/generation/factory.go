package generation

import (
	"context"

	"ai-doc-platform-api/internal/config"
	workflowport "ai-doc-platform-api/internal/workflow/port"
	"ai-doc-platform-api/pkg/logger"
)

// NewFromConfig 进程启动时选择一次生成器：默认提供商有凭据时为在线模式，否则离线
func NewFromConfig(cfg *config.Config, factory workflowport.ChatModelFactory) Generator {
	ctx := context.Background()
	if factory == nil || !cfg.LLM.HasCredential() {
		logger.Warn(ctx, "no llm credential configured, using offline content generator",
			"default_provider", cfg.LLM.DefaultProvider,
		)
		return NewOffline()
	}

	logger.Info(ctx, "using live content generator",
		"default_provider", cfg.LLM.DefaultProvider,
		"failure_mode", cfg.Generation.FailureMode,
	)
	return NewLive(factory,
		WithProvider(cfg.LLM.DefaultProvider),
		WithStrict(cfg.Generation.Strict()),
	)
}
