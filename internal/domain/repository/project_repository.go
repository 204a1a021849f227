// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ai-doc-platform-api/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	// Create 创建项目，ID 为空时由实现生成
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取项目，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Project, error)

	// ListByOwner 获取用户项目列表（按创建时间倒序）
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.Project], error)

	// Delete 删除项目，其下段落一并删除
	Delete(ctx context.Context, id string) error
}
