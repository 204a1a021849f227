// Package generation 实现内容生成器：大纲、段落正文与润色
package generation

import (
	"context"
	"time"

	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/pkg/metrics"
)

// Kind 生成类型
type Kind string

const (
	KindOutline     Kind = "outline"
	KindSectionBody Kind = "section_body"
	KindRefine      Kind = "refine"
)

// 生成器运行模式
const (
	ModeLive    = "live"
	ModeOffline = "offline"
)

// OutlineRequest 大纲生成请求
type OutlineRequest struct {
	Topic        string
	DocumentType entity.DocumentType
}

// SectionRequest 段落正文生成请求
type SectionRequest struct {
	DocumentTitle string
	SectionTitle  string
	DocumentType  entity.DocumentType
}

// RefineRequest 段落润色请求
type RefineRequest struct {
	Content      string
	Instruction  string
	SectionTitle string
	DocumentType entity.DocumentType
}

// Generator 内容生成器
type Generator interface {
	// Outline 生成有序的段落标题列表，结果非空
	Outline(ctx context.Context, req OutlineRequest) ([]string, error)
	// SectionBody 生成段落正文
	SectionBody(ctx context.Context, req SectionRequest) (string, error)
	// Refine 按指令改写已有内容
	Refine(ctx context.Context, req RefineRequest) (string, error)
	// Mode 返回 live 或 offline
	Mode() string
}

// AppendRefinement 追加润色备注：original + "\n\n[Refined with: " + instruction + "]"
func AppendRefinement(content, instruction string) string {
	return content + "\n\n[Refined with: " + instruction + "]"
}

func observe(kind Kind, mode, outcome string, start time.Time) {
	metrics.GenerationTotal.WithLabelValues(string(kind), mode, outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind), mode).Observe(time.Since(start).Seconds())
}
