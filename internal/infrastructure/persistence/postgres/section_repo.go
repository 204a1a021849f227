package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
	apperrors "ai-doc-platform-api/pkg/errors"
)

// SectionRepository 段落仓储实现
type SectionRepository struct {
	client *Client
}

// NewSectionRepository 创建段落仓储
func NewSectionRepository(client *Client) *SectionRepository {
	return &SectionRepository{client: client}
}

// CreateBatch 批量创建段落
func (r *SectionRepository) CreateBatch(ctx context.Context, projectID string, sections []*entity.Section) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.CreateBatch")
	defer span.End()

	if len(sections) == 0 {
		return nil
	}
	if err := repository.CheckOrderIndexes(sections); err != nil {
		return err
	}

	// 在副本上填充 ID 与版本，写入成功后才回写调用方
	rows := make([]*entity.Section, len(sections))
	for i, s := range sections {
		cp := *s
		cp.ProjectID = projectID
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		if cp.Version == 0 {
			cp.Version = 1
		}
		rows[i] = &cp
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict.WithDetail("order_index already used in project")
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create sections: %w", err)
	}
	for i, s := range rows {
		*sections[i] = *s
	}
	return nil
}

// GetByID 根据 ID 获取段落
func (r *SectionRepository) GetByID(ctx context.Context, id string) (*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var section entity.Section
	if err := db.First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &section, nil
}

// ListByProject 获取项目段落（按 order_index 升序）
func (r *SectionRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var sections []*entity.Section
	if err := db.Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&sections).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

// UpdateContent 乐观锁更新内容
func (r *SectionRepository) UpdateContent(ctx context.Context, id string, content string, expectedVersion int) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.UpdateContent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.Section{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"content":    content,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to update section content: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return expectedVersion + 1, nil
	}

	var count int64
	if err := db.Model(&entity.Section{}).Where("id = ?", id).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to check section: %w", err)
	}
	if count == 0 {
		return 0, apperrors.ErrSectionNotFound.WithDetail(id)
	}
	return 0, apperrors.ErrVersionConflict.WithDetail(fmt.Sprintf("section %s expected version %d", id, expectedVersion))
}

// DeleteByProject 删除项目下全部段落
func (r *SectionRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.DeleteByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("project_id = ?", projectID).Delete(&entity.Section{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}
