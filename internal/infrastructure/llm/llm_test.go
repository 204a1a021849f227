package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-doc-platform-api/internal/config"
)

type flakyModel struct {
	failures int
	calls    int
	err      error
}

func (f *flakyModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return schema.AssistantMessage("ok", nil), nil
}

func (f *flakyModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func fastRetry(n int) config.RetryConfig {
	return config.RetryConfig{
		MaxRetries:      n,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestWithRetry_DisabledReturnsInner(t *testing.T) {
	inner := &flakyModel{}
	assert.Same(t, model.BaseChatModel(inner), WithRetry(inner, "p", config.RetryConfig{}))
}

func TestWithRetry_RecoversAfterTransientFailures(t *testing.T) {
	inner := &flakyModel{failures: 2, err: errors.New("503")}
	m := WithRetry(inner, "p", fastRetry(3))

	msg, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
	assert.Equal(t, 3, inner.calls)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyModel{failures: 10, err: errors.New("503")}
	m := WithRetry(inner, "p", fastRetry(2))

	_, err := m.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestWithRetry_DoesNotRetryCancellation(t *testing.T) {
	inner := &flakyModel{failures: 10, err: context.Canceled}
	m := WithRetry(inner, "p", fastRetry(5))

	_, err := m.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestWithRetry_Stream(t *testing.T) {
	inner := &flakyModel{failures: 1, err: errors.New("reset")}
	m := WithRetry(inner, "p", fastRetry(1))

	sr, err := m.Stream(context.Background(), nil)
	require.NoError(t, err)
	defer sr.Close()
	msg, err := sr.Recv()
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
}

func testLLMConfig() *config.Config {
	return &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai-go",
		Providers: map[string]config.ProviderConfig{
			"openai-go": {Driver: config.LLMDriverOpenAIGo, APIKey: "sk-test", Model: "gpt-4o-mini", Timeout: time.Second},
			"nokey":     {Driver: config.LLMDriverOpenAIGo, Model: "gpt-4o-mini"},
			"weird":     {Driver: "carrier-pigeon", APIKey: "sk-test", Model: "m"},
		},
	}}
}

func TestEinoFactory_GetCachesByProvider(t *testing.T) {
	f := NewEinoFactory(testLLMConfig())
	ctx := context.Background()

	m1, err := f.Default(ctx)
	require.NoError(t, err)
	m2, err := f.Get(ctx, "openai-go")
	require.NoError(t, err)
	assert.Same(t, m1, m2)
	assert.Equal(t, "gpt-4o-mini", f.ModelName(""))
}

func TestEinoFactory_ConcurrentFirstGetSharesModel(t *testing.T) {
	f := NewEinoFactory(testLLMConfig())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	const n = 8
	models := make([]model.BaseChatModel, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		ctx := context.Background()
		if i%2 == 0 {
			ctx = cancelled
		}
		wg.Add(1)
		go func(i int, ctx context.Context) {
			defer wg.Done()
			models[i], errs[i] = f.Get(ctx, "openai-go")
		}(i, ctx)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, models[0], models[i])
	}
}

func TestEinoFactory_GetErrors(t *testing.T) {
	f := NewEinoFactory(testLLMConfig())
	ctx := context.Background()

	_, err := f.Get(ctx, "missing")
	assert.Error(t, err)

	_, err = f.Get(ctx, "nokey")
	assert.Error(t, err)

	_, err = f.Get(ctx, "weird")
	assert.ErrorContains(t, err, "unsupported llm driver")
}

func TestOpenAIGoChatModel_ResolveConfig(t *testing.T) {
	m, err := NewOpenAIGoChatModel(config.ProviderConfig{APIKey: "sk", Model: "base", MaxTokens: 100, Temperature: 0.3})
	require.NoError(t, err)

	conf := m.resolveConfig(model.WithModel("override"), model.WithMaxTokens(42))
	assert.Equal(t, "override", conf.Model)
	assert.Equal(t, 42, conf.MaxTokens)
	assert.InDelta(t, 0.3, conf.Temperature, 1e-6)

	_, err = NewOpenAIGoChatModel(config.ProviderConfig{Model: "m"})
	assert.Error(t, err)
}

func TestToOpenAIMessages_SkipsNil(t *testing.T) {
	msgs := toOpenAIMessages([]*schema.Message{
		schema.SystemMessage("sys"),
		nil,
		schema.UserMessage("u"),
		schema.AssistantMessage("a", nil),
	})
	assert.Len(t, msgs, 3)
}
