package repository

import (
	"context"
	"fmt"

	"ai-doc-platform-api/internal/domain/entity"
	apperrors "ai-doc-platform-api/pkg/errors"
)

// SectionRepository 段落仓储接口
type SectionRepository interface {
	// CreateBatch 批量创建段落；序号在批内或与已有段落重复时返回 ErrConflict
	CreateBatch(ctx context.Context, projectID string, sections []*entity.Section) error

	// GetByID 根据 ID 获取段落，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Section, error)

	// ListByProject 获取项目全部段落，按 order_index 升序
	ListByProject(ctx context.Context, projectID string) ([]*entity.Section, error)

	// UpdateContent 以乐观锁覆盖内容，返回新版本号；
	// 存储版本与 expectedVersion 不一致时返回 ErrVersionConflict，段落不存在时返回 ErrSectionNotFound
	UpdateContent(ctx context.Context, id string, content string, expectedVersion int) (int, error)

	// DeleteByProject 删除项目下全部段落
	DeleteByProject(ctx context.Context, projectID string) error
}

// CheckOrderIndexes 校验一批段落的序号非负且互不重复
func CheckOrderIndexes(sections []*entity.Section) error {
	seen := make(map[int]struct{}, len(sections))
	for _, s := range sections {
		if s.OrderIndex < 0 {
			return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("order_index must be >= 0, got %d", s.OrderIndex))
		}
		if _, dup := seen[s.OrderIndex]; dup {
			return apperrors.ErrConflict.WithDetail(fmt.Sprintf("duplicate order_index %d", s.OrderIndex))
		}
		seen[s.OrderIndex] = struct{}{}
	}
	return nil
}
