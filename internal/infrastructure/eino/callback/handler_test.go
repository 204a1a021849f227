package callback

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"ai-doc-platform-api/internal/domain/service"
	"ai-doc-platform-api/pkg/metrics"
)

func TestChatModelCallbackHandler_RecordsSuccess(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_ok", "openai")
	info := &einocb.RunInfo{Name: "llm", Type: "OpenAI"}

	before := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_ok", "openai", "gpt", "success"))

	ctx = h.OnStart(ctx, info, &model.CallbackInput{Config: &model.Config{Model: "gpt"}})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		Message:    schema.AssistantMessage("x", nil),
		Config:     &model.Config{Model: "gpt"},
		TokenUsage: &model.TokenUsage{PromptTokens: 7, CompletionTokens: 3},
	})

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_ok", "openai", "gpt", "success")))
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("cb_test_ok", "openai", "gpt", "prompt")))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("cb_test_ok", "openai", "gpt", "completion")))
}

func TestChatModelCallbackHandler_RecordsError(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_err", "openai")
	info := &einocb.RunInfo{Name: "llm", Type: "OpenAI"}

	ctx = h.OnStart(ctx, info, nil)
	h.OnError(ctx, info, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_err", "openai", "OpenAI", "error")))
}

func TestWorkflowContextDefaults(t *testing.T) {
	assert.Equal(t, "unknown", service.WorkflowFromContext(context.Background()))
	assert.Equal(t, "unknown", service.ProviderFromContext(context.Background()))

	ctx := service.WithWorkflowProvider(context.Background(), " outline ", "")
	assert.Equal(t, "outline", service.WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", service.ProviderFromContext(ctx))
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
