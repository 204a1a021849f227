package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	workflowchain "ai-doc-platform-api/internal/workflow/chain"
	wfmodel "ai-doc-platform-api/internal/workflow/model"
	wfnode "ai-doc-platform-api/internal/workflow/node"
	workflowport "ai-doc-platform-api/internal/workflow/port"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
	"ai-doc-platform-api/pkg/metrics"
)

var errEmptyResponse = errors.New("empty llm response")

// Live 调用模型的生成器；失败时按策略兜底或返回 GenerationError
type Live struct {
	outline *workflowchain.OutlineChain
	section *workflowchain.SectionBodyChain
	refine  *workflowchain.RefineChain

	provider string
	strict   bool
}

// LiveOption Live 生成器可选项
type LiveOption func(*Live)

// WithProvider 指定提供商（默认使用配置中的 default_provider）
func WithProvider(provider string) LiveOption {
	return func(l *Live) { l.provider = strings.TrimSpace(provider) }
}

// WithStrict 严格模式：上游失败返回错误而不是兜底内容
func WithStrict(strict bool) LiveOption {
	return func(l *Live) { l.strict = strict }
}

// NewLive 创建在线生成器
func NewLive(factory workflowport.ChatModelFactory, opts ...LiveOption) *Live {
	l := &Live{
		outline: workflowchain.NewOutlineChain(factory),
		section: workflowchain.NewSectionBodyChain(factory),
		refine:  workflowchain.NewRefineChain(factory),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mode 运行模式
func (g *Live) Mode() string {
	return ModeLive
}

// FallbackOutline 模型失败或输出无法解析时使用的大纲
func FallbackOutline(topic string) []string {
	return []string{"Introduction to " + topic, "Overview", "Details", "Summary"}
}

// Outline 请求结构化大纲；解析失败不重复调用模型
func (g *Live) Outline(ctx context.Context, req OutlineRequest) ([]string, error) {
	start := time.Now()

	msg, err := g.outline.Invoke(ctx, &wfmodel.OutlineInput{
		GenerateOptions: g.options(),
		Topic:           req.Topic,
		DocumentLabel:   req.DocumentType.Label(),
	})
	if err == nil {
		var titles []string
		if titles, err = wfnode.ParseOutline(msg.Content); err == nil {
			logUsage(ctx, KindOutline, msg)
			observe(KindOutline, ModeLive, metrics.OutcomeOK, start)
			return titles, nil
		}
		logger.Warn(ctx, "llm outline response unparseable",
			"topic", req.Topic,
			"response", wfnode.TruncateByRunes(msg.Content, 200),
		)
	}

	if g.strict {
		observe(KindOutline, ModeLive, metrics.OutcomeError, start)
		return nil, apperrors.ErrGenerationFailed.WithError(err)
	}
	logger.Warn(ctx, "outline generation failed, using fallback outline",
		"topic", req.Topic,
		"error", err.Error(),
	)
	observe(KindOutline, ModeLive, metrics.OutcomeFallback, start)
	return FallbackOutline(req.Topic), nil
}

// SectionBody 生成正文；失败时返回 "Error generating content: <reason>"
func (g *Live) SectionBody(ctx context.Context, req SectionRequest) (string, error) {
	start := time.Now()

	msg, err := g.section.Invoke(ctx, &wfmodel.SectionBodyInput{
		GenerateOptions: g.options(),
		DocumentTitle:   req.DocumentTitle,
		SectionTitle:    req.SectionTitle,
		DocumentLabel:   req.DocumentType.Label(),
	})
	text, err := textOf(msg, err)
	if err == nil {
		logUsage(ctx, KindSectionBody, msg)
		observe(KindSectionBody, ModeLive, metrics.OutcomeOK, start)
		return text, nil
	}

	if g.strict {
		observe(KindSectionBody, ModeLive, metrics.OutcomeError, start)
		return "", apperrors.ErrGenerationFailed.WithError(err)
	}
	logger.Warn(ctx, "section generation failed, using error text",
		"section_title", req.SectionTitle,
		"error", err.Error(),
	)
	observe(KindSectionBody, ModeLive, metrics.OutcomeFallback, start)
	return "Error generating content: " + err.Error(), nil
}

// Refine 模型改写；失败时退化为追加润色备注
func (g *Live) Refine(ctx context.Context, req RefineRequest) (string, error) {
	start := time.Now()

	msg, err := g.refine.Invoke(ctx, &wfmodel.RefineInput{
		GenerateOptions: g.options(),
		SectionTitle:    req.SectionTitle,
		DocumentLabel:   req.DocumentType.Label(),
		Content:         req.Content,
		Instruction:     req.Instruction,
	})
	text, err := textOf(msg, err)
	if err == nil {
		logUsage(ctx, KindRefine, msg)
		observe(KindRefine, ModeLive, metrics.OutcomeOK, start)
		return text, nil
	}

	if g.strict {
		observe(KindRefine, ModeLive, metrics.OutcomeError, start)
		return "", apperrors.ErrGenerationFailed.WithError(err)
	}
	logger.Warn(ctx, "refine generation failed, appending instruction note",
		"section_title", req.SectionTitle,
		"error", err.Error(),
	)
	observe(KindRefine, ModeLive, metrics.OutcomeFallback, start)
	return AppendRefinement(req.Content, req.Instruction), nil
}

func (g *Live) options() wfmodel.GenerateOptions {
	return wfmodel.GenerateOptions{Provider: g.provider}
}

func textOf(msg *schema.Message, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", errEmptyResponse
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func logUsage(ctx context.Context, kind Kind, msg *schema.Message) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	logger.Debug(ctx, "llm generation usage",
		"kind", string(kind),
		"prompt_tokens", msg.ResponseMeta.Usage.PromptTokens,
		"completion_tokens", msg.ResponseMeta.Usage.CompletionTokens,
	)
}
