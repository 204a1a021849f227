package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-doc-platform-api/internal/domain/entity"
	"ai-doc-platform-api/internal/domain/repository"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

const projectColumns = "id, owner_id, title, document_type, topic, created_at, updated_at"

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "sqlite.ProjectRepository.Create")
	defer span.End()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	_, err := getQuerier(ctx, r.client.db).ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.OwnerID, project.Title, string(project.DocumentType), project.Topic,
		toUnix(project.CreatedAt), toUnix(project.UpdatedAt),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取项目
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "sqlite.ProjectRepository.GetByID")
	defer span.End()

	row := getQuerier(ctx, r.client.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListByOwner 获取用户项目列表
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "sqlite.ProjectRepository.ListByOwner")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE owner_id = ?", ownerID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = ?
		 ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		ownerID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return repository.NewPagedResult(projects, total, pagination), nil
}

// Delete 删除项目（sections 外键级联删除）
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "sqlite.ProjectRepository.Delete")
	defer span.End()

	err := withTx(ctx, r.client.db, func(q querier) error {
		if _, err := q.ExecContext(ctx, "DELETE FROM sections WHERE project_id = ?", id); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var (
		p                    entity.Project
		docType              string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &docType, &p.Topic, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.DocumentType = entity.DocumentType(docType)
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)
	return &p, nil
}
