// Package section 管理段落生命周期：生成与润色
package section

import (
	"context"
	"strings"

	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	"ai-doc-platform-api/internal/infrastructure/messaging"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
	"ai-doc-platform-api/pkg/metrics"
)

// EventPublisher 段落事件发布（可选）
type EventPublisher interface {
	PublishSectionEvent(ctx context.Context, eventType string, event *messaging.SectionEvent) (string, error)
}

// Manager 段落生命周期管理器
type Manager struct {
	sections   repository.SectionRepository
	projects   repository.ProjectRepository
	generator  generation.Generator
	publisher  EventPublisher
	refineMode string
}

// NewManager 创建段落管理器；publisher 为 nil 时不发布事件
func NewManager(
	sections repository.SectionRepository,
	projects repository.ProjectRepository,
	generator generation.Generator,
	publisher EventPublisher,
	cfg *config.Config,
) *Manager {
	mode := config.RefineModeAppend
	if cfg != nil && strings.EqualFold(cfg.Generation.RefineMode, config.RefineModeModel) {
		mode = config.RefineModeModel
	}
	return &Manager{
		sections:   sections,
		projects:   projects,
		generator:  generator,
		publisher:  publisher,
		refineMode: mode,
	}
}

// Generate 生成并覆盖段落内容
func (m *Manager) Generate(ctx context.Context, sectionID, callerID string) (*entity.Section, error) {
	ctx = logger.WithContext(ctx, logger.SectionIDKey, sectionID)

	section, project, err := m.loadOwned(ctx, sectionID, callerID)
	if err != nil {
		return nil, err
	}

	body, err := m.generator.SectionBody(ctx, generation.SectionRequest{
		DocumentTitle: project.Title,
		SectionTitle:  section.Title,
		DocumentType:  project.DocumentType,
	})
	if err != nil {
		metrics.SectionWritesTotal.WithLabelValues("generate", "error").Inc()
		return nil, err
	}

	return m.write(ctx, section, callerID, body, "generate", messaging.EventSectionGenerated)
}

// Refine 按指令润色段落内容；无内容时视为空串
func (m *Manager) Refine(ctx context.Context, sectionID, callerID, instruction string) (*entity.Section, error) {
	ctx = logger.WithContext(ctx, logger.SectionIDKey, sectionID)

	section, project, err := m.loadOwned(ctx, sectionID, callerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("refinement prompt is required")
	}

	var refined string
	if m.refineMode == config.RefineModeModel {
		refined, err = m.generator.Refine(ctx, generation.RefineRequest{
			Content:      section.Body(),
			Instruction:  instruction,
			SectionTitle: section.Title,
			DocumentType: project.DocumentType,
		})
		if err != nil {
			metrics.SectionWritesTotal.WithLabelValues("refine", "error").Inc()
			return nil, err
		}
	} else {
		refined = generation.AppendRefinement(section.Body(), instruction)
	}

	return m.write(ctx, section, callerID, refined, "refine", messaging.EventSectionRefined)
}

// loadOwned 依次校验段落存在、项目存在、调用方为所有者；任何写入前完成
func (m *Manager) loadOwned(ctx context.Context, sectionID, callerID string) (*entity.Section, *entity.Project, error) {
	section, err := m.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, nil, err
	}
	if section == nil {
		return nil, nil, apperrors.ErrSectionNotFound.WithDetail(sectionID)
	}

	project, err := m.projects.GetByID(ctx, section.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, apperrors.ErrProjectNotFound.WithDetail(section.ProjectID)
	}
	if !project.IsOwnedBy(callerID) {
		logger.Warn(ctx, "section access denied",
			"project_id", project.ID,
			"caller_id", callerID,
		)
		return nil, nil, apperrors.ErrForbidden.WithDetail("not the project owner")
	}
	return section, project, nil
}

func (m *Manager) write(ctx context.Context, section *entity.Section, callerID, content, operation, eventType string) (*entity.Section, error) {
	version, err := m.sections.UpdateContent(ctx, section.ID, content, section.Version)
	if err != nil {
		metrics.SectionWritesTotal.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	metrics.SectionWritesTotal.WithLabelValues(operation, "ok").Inc()

	section.Content = &content
	section.Version = version

	logger.Info(ctx, "section content updated",
		"operation", operation,
		"project_id", section.ProjectID,
		"version", version,
		"content_length", len(content),
	)
	m.publish(ctx, eventType, section, callerID)
	return section, nil
}

func (m *Manager) publish(ctx context.Context, eventType string, section *entity.Section, callerID string) {
	if m.publisher == nil {
		return
	}
	_, err := m.publisher.PublishSectionEvent(ctx, eventType, &messaging.SectionEvent{
		SectionID:     section.ID,
		ProjectID:     section.ProjectID,
		UserID:        callerID,
		Version:       section.Version,
		ContentLength: len(section.Body()),
	})
	if err != nil {
		logger.Error(ctx, "failed to publish section event", err, "event_type", eventType)
	}
}
