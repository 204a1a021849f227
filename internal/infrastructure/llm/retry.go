package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/pkg/logger"
	"ai-doc-platform-api/pkg/metrics"
)

// retryingChatModel 对模型调用做指数退避重试
type retryingChatModel struct {
	inner    model.BaseChatModel
	provider string
	cfg      config.RetryConfig
}

// WithRetry 包装 ChatModel；MaxRetries <= 0 时原样返回
func WithRetry(inner model.BaseChatModel, provider string, cfg config.RetryConfig) model.BaseChatModel {
	if inner == nil || cfg.MaxRetries <= 0 {
		return inner
	}
	return &retryingChatModel{inner: inner, provider: provider, cfg: cfg}
}

// Generate 带重试的单次补全
func (m *retryingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return retryCall(ctx, m, func() (*schema.Message, error) {
		return m.inner.Generate(ctx, input, opts...)
	})
}

// Stream 带重试的流式调用（仅重试建立流的阶段）
func (m *retryingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return retryCall(ctx, m, func() (*schema.StreamReader[*schema.Message], error) {
		return m.inner.Stream(ctx, input, opts...)
	})
}

func retryCall[T any](ctx context.Context, m *retryingChatModel, call func() (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		out, err := call()
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(m.newBackOff()),
		backoff.WithMaxTries(uint(m.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.LLMRetriesTotal.WithLabelValues(m.provider).Inc()
			logger.Warn(ctx, "llm call failed, retrying",
				"provider", m.provider,
				"attempt", attempt,
				"next_in", next.String(),
				"error", err.Error(),
			)
		}),
	)
}

func (m *retryingChatModel) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if m.cfg.InitialInterval > 0 {
		b.InitialInterval = m.cfg.InitialInterval
	}
	if m.cfg.MaxInterval > 0 {
		b.MaxInterval = m.cfg.MaxInterval
	}
	if m.cfg.Multiplier > 0 {
		b.Multiplier = m.cfg.Multiplier
	}
	return b
}
