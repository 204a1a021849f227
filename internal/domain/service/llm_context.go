// Package service 定义跨层共享的领域服务辅助
package service

import (
	"context"
	"strings"
)

// 生成工作流名称（用于指标与追踪标签）
const (
	WorkflowOutline     = "outline"
	WorkflowSectionBody = "section_body"
	WorkflowRefine      = "refine"

	unknownLabel = "unknown"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

// WithWorkflowProvider 在 Context 中标注当前模型调用所属工作流与提供商
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	ctx = withValue(ctx, llmCtxKeyWorkflow, workflow)
	return withValue(ctx, llmCtxKeyProvider, provider)
}

// WorkflowFromContext 读取工作流名，缺省为 unknown
func WorkflowFromContext(ctx context.Context) string {
	return valueOr(ctx, llmCtxKeyWorkflow)
}

// ProviderFromContext 读取提供商名，缺省为 unknown
func ProviderFromContext(ctx context.Context) string {
	return valueOr(ctx, llmCtxKeyProvider)
}

func withValue(ctx context.Context, key llmCtxKey, v string) context.Context {
	v = strings.TrimSpace(v)
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOr(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknownLabel
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return unknownLabel
	}
	return s
}
