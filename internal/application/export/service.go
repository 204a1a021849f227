// Package export 实现项目导出：加载段落并渲染为 docx / pptx
package export

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-doc-platform-api/internal/application/document"
	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
	"ai-doc-platform-api/pkg/metrics"
)

var tracer = otel.Tracer("export")

// Result 导出结果
type Result struct {
	Data         []byte
	Filename     string
	MimeType     string
	DocumentType entity.DocumentType
}

// Service 导出服务
type Service struct {
	projects repository.ProjectRepository
	sections repository.SectionRepository
	renderer *document.Renderer
}

// NewService 创建导出服务
func NewService(projects repository.ProjectRepository, sections repository.SectionRepository, renderer *document.Renderer) *Service {
	return &Service{
		projects: projects,
		sections: sections,
		renderer: renderer,
	}
}

// SuggestedFilename 标题空格替换为下划线并追加扩展名
func SuggestedFilename(title string, docType entity.DocumentType) string {
	return strings.ReplaceAll(title, " ", "_") + docType.Extension()
}

// Export 导出项目；每次调用独立读取当前段落并渲染
func (s *Service) Export(ctx context.Context, projectID, callerID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "export.Service.Export",
		trace.WithAttributes(attribute.String("project.id", projectID)))
	defer span.End()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound.WithDetail(projectID)
	}
	if !project.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden.WithDetail("not the project owner")
	}

	res, err := s.render(ctx, project)
	if err != nil {
		span.RecordError(err)
		metrics.ExportTotal.WithLabelValues(string(project.DocumentType), "error").Inc()
		return nil, err
	}

	metrics.ExportTotal.WithLabelValues(string(project.DocumentType), "ok").Inc()
	return res, nil
}

func (s *Service) render(ctx context.Context, project *entity.Project) (*Result, error) {
	sections, err := s.sections.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].OrderIndex < sections[j].OrderIndex
	})

	buf, err := s.renderer.Render(project.Title, document.FromEntities(sections), project.DocumentType)
	if err != nil {
		return nil, err
	}

	metrics.ExportSize.WithLabelValues(string(project.DocumentType)).Observe(float64(buf.Len()))
	logger.Info(ctx, "document exported",
		"project_id", project.ID,
		"document_type", string(project.DocumentType),
		"sections", len(sections),
		"bytes", buf.Len(),
	)

	return &Result{
		Data:         buf.Bytes(),
		Filename:     SuggestedFilename(project.Title, project.DocumentType),
		MimeType:     project.DocumentType.MimeType(),
		DocumentType: project.DocumentType,
	}, nil
}
