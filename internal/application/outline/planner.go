// Package outline 实现大纲规划：主题 -> 有序段落标题
package outline

import (
	"context"
	"strings"

	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
)

// Planner 大纲规划器
type Planner struct {
	generator generation.Generator
}

// NewPlanner 创建大纲规划器
func NewPlanner(generator generation.Generator) *Planner {
	return &Planner{generator: generator}
}

// Plan 为主题生成大纲，结果非空且不含空标题
func (p *Planner) Plan(ctx context.Context, topic, documentType string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("topic is required")
	}
	docType, err := entity.ParseDocumentType(documentType)
	if err != nil {
		return nil, err
	}

	titles, err := p.generator.Outline(ctx, generation.OutlineRequest{Topic: topic, DocumentType: docType})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.ErrGenerationFailed.WithDetail("outline is empty")
	}

	logger.Info(ctx, "outline planned",
		"topic", topic,
		"document_type", string(docType),
		"sections", len(out),
		"mode", p.generator.Mode(),
	)
	return out, nil
}

// ToSections 按大纲顺序构造段落，序号为 0..N-1
func ToSections(projectID string, titles []string) []*entity.Section {
	return entity.NewSectionsFromOutline(projectID, titles)
}
