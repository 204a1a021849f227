// Package project 提供项目与段落的增删查
package project

import (
	"context"
	"strings"

	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
)

// NewSection 手动创建段落的输入
type NewSection struct {
	Title      string
	OrderIndex int
}

// Service 项目服务
type Service struct {
	projects repository.ProjectRepository
	sections repository.SectionRepository
	tx       repository.Transactor
}

// NewService 创建项目服务
func NewService(projects repository.ProjectRepository, sections repository.SectionRepository, tx repository.Transactor) *Service {
	return &Service{projects: projects, sections: sections, tx: tx}
}

// CreateProject 创建项目
func (s *Service) CreateProject(ctx context.Context, ownerID, title, documentType, topic string) (*entity.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title is required")
	}
	docType, err := entity.ParseDocumentType(documentType)
	if err != nil {
		return nil, err
	}

	p := entity.NewProject(ownerID, title, docType, strings.TrimSpace(topic))
	if err := s.projects.Create(ctx, p); err != nil {
		logger.Error(ctx, "failed to create project", err)
		return nil, err
	}
	logger.Info(ctx, "project created", "project_id", p.ID, "document_type", string(docType))
	return p, nil
}

// ListProjects 列出调用方的项目
func (s *Service) ListProjects(ctx context.Context, ownerID string, page repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	return s.projects.ListByOwner(ctx, ownerID, page)
}

// GetProject 获取项目（校验所有权）
func (s *Service) GetProject(ctx context.Context, projectID, callerID string) (*entity.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.ErrProjectNotFound.WithDetail(projectID)
	}
	if !p.IsOwnedBy(callerID) {
		return nil, apperrors.ErrForbidden.WithDetail("not the project owner")
	}
	return p, nil
}

// DeleteProject 删除项目及其段落
func (s *Service) DeleteProject(ctx context.Context, projectID, callerID string) error {
	if _, err := s.GetProject(ctx, projectID, callerID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.sections.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		return s.projects.Delete(ctx, projectID)
	})
	if err != nil {
		logger.Error(ctx, "failed to delete project", err, "project_id", projectID)
		return err
	}
	logger.Info(ctx, "project deleted", "project_id", projectID)
	return nil
}

// CreateSections 按给定序号批量创建段落
func (s *Service) CreateSections(ctx context.Context, projectID, callerID string, items []NewSection) ([]*entity.Section, error) {
	if _, err := s.GetProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrInvalidParam.WithDetail("sections are required")
	}

	sections := make([]*entity.Section, 0, len(items))
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			return nil, apperrors.ErrInvalidParam.WithDetail("section title is required")
		}
		sections = append(sections, entity.NewSection(projectID, title, it.OrderIndex))
	}
	if err := s.sections.CreateBatch(ctx, projectID, sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// ApplyOutline 按大纲顺序创建段落（序号 0..N-1）
func (s *Service) ApplyOutline(ctx context.Context, projectID, callerID string, titles []string) ([]*entity.Section, error) {
	items := make([]NewSection, 0, len(titles))
	for i, t := range titles {
		items = append(items, NewSection{Title: t, OrderIndex: i})
	}
	return s.CreateSections(ctx, projectID, callerID, items)
}

// ListSections 列出项目段落（按序号升序）
func (s *Service) ListSections(ctx context.Context, projectID, callerID string) ([]*entity.Section, error) {
	if _, err := s.GetProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.sections.ListByProject(ctx, projectID)
}

// GetSection 获取段落（校验所属项目的所有权）
func (s *Service) GetSection(ctx context.Context, sectionID, callerID string) (*entity.Section, error) {
	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, apperrors.ErrSectionNotFound.WithDetail(sectionID)
	}
	if _, err := s.GetProject(ctx, sec.ProjectID, callerID); err != nil {
		return nil, err
	}
	return sec, nil
}
