// Package llm 提供 ChatModel 的构建与管理（Eino 适配）
package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/sync/singleflight"

	"ai-doc-platform-api/internal/config"
)

// EinoFactory 按提供商名称惰性创建并缓存 ChatModel
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
	group  singleflight.Group
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，未指定时返回默认提供商
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 同一提供商的并发首次创建只构建一次；构建不受首个调用方取消影响
	v, err, _ := f.group.Do(name, func() (any, error) {
		f.mu.RLock()
		cached, ok := f.models[name]
		f.mu.RUnlock()
		if ok {
			return cached, nil
		}

		providerCfg, ok := f.config.Providers[name]
		if !ok {
			return nil, fmt.Errorf("provider %s not found in LLM config", name)
		}
		if providerCfg.APIKey == "" {
			return nil, fmt.Errorf("provider %s has no api key", name)
		}

		chatModel, err := newChatModel(context.WithoutCancel(ctx), name, providerCfg)
		if err != nil {
			return nil, err
		}
		chatModel = WithRetry(chatModel, name, f.config.Retry)

		f.mu.Lock()
		f.models[name] = chatModel
		f.mu.Unlock()
		return chatModel, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.BaseChatModel), nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// ModelName 返回提供商配置的模型名（用于日志与指标）
func (f *EinoFactory) ModelName(name string) string {
	if name == "" {
		name = f.config.DefaultProvider
	}
	return f.config.Providers[name].Model
}

func newChatModel(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	switch cfg.Driver {
	case config.LLMDriverOpenAIGo:
		m, err := NewOpenAIGoChatModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai-go chat model for %s: %w", name, err)
		}
		return m, nil
	case "", config.LLMDriverEinoOpenAI:
		var maxTokens *int
		if cfg.MaxTokens > 0 {
			maxTokens = &cfg.MaxTokens
		}
		m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   maxTokens,
			Temperature: ptrFloat32(float32(cfg.Temperature)),
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported llm driver %q for provider %s", cfg.Driver, name)
	}
}

func ptrFloat32(f float32) *float32 {
	return &f
}
