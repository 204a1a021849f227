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

const sectionColumns = "id, project_id, title, content, order_index, version, created_at, updated_at"

// CreateBatch 批量创建段落（单事务，任一失败全部回滚）
func (r *SectionRepository) CreateBatch(ctx context.Context, projectID string, sections []*entity.Section) error {
	ctx, span := tracer.Start(ctx, "sqlite.SectionRepository.CreateBatch")
	defer span.End()

	if len(sections) == 0 {
		return nil
	}
	if err := repository.CheckOrderIndexes(sections); err != nil {
		return err
	}

	// 在副本上填充 ID 与版本，提交成功后才回写调用方
	rows := make([]*entity.Section, len(sections))
	for i, s := range sections {
		cp := *s
		rows[i] = &cp
	}

	now := time.Now().UTC()
	err := withTx(ctx, r.client.db, func(q querier) error {
		for _, s := range rows {
			s.ProjectID = projectID
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			if s.Version == 0 {
				s.Version = 1
			}
			if s.CreatedAt.IsZero() {
				s.CreatedAt = now
			}
			s.UpdatedAt = now

			if _, err := q.ExecContext(ctx,
				`INSERT INTO sections (`+sectionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ID, s.ProjectID, s.Title, nullableString(s.Content), s.OrderIndex, s.Version,
				toUnix(s.CreatedAt), toUnix(s.UpdatedAt),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
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
	ctx, span := tracer.Start(ctx, "sqlite.SectionRepository.GetByID")
	defer span.End()

	row := getQuerier(ctx, r.client.db).QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	section, err := scanSection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return section, nil
}

// ListByProject 获取项目段落（按 order_index 升序）
func (r *SectionRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "sqlite.SectionRepository.ListByProject")
	defer span.End()

	rows, err := getQuerier(ctx, r.client.db).QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE project_id = ? ORDER BY order_index ASC`, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []*entity.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return sections, nil
}

// UpdateContent 乐观锁更新内容
func (r *SectionRepository) UpdateContent(ctx context.Context, id string, content string, expectedVersion int) (int, error) {
	ctx, span := tracer.Start(ctx, "sqlite.SectionRepository.UpdateContent")
	defer span.End()

	q := getQuerier(ctx, r.client.db)
	res, err := q.ExecContext(ctx,
		`UPDATE sections SET content = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		content, toUnix(time.Now()), id, expectedVersion)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to update section content: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 1 {
		return expectedVersion + 1, nil
	}

	var exists int
	err = q.QueryRowContext(ctx, "SELECT 1 FROM sections WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrSectionNotFound.WithDetail(id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check section: %w", err)
	}
	return 0, apperrors.ErrVersionConflict.WithDetail(fmt.Sprintf("section %s expected version %d", id, expectedVersion))
}

// DeleteByProject 删除项目下全部段落
func (r *SectionRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, span := tracer.Start(ctx, "sqlite.SectionRepository.DeleteByProject")
	defer span.End()

	if _, err := getQuerier(ctx, r.client.db).ExecContext(ctx, "DELETE FROM sections WHERE project_id = ?", projectID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

func scanSection(row rowScanner) (*entity.Section, error) {
	var (
		s                    entity.Section
		content              sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&s.ID, &s.ProjectID, &s.Title, &content, &s.OrderIndex, &s.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if content.Valid {
		c := content.String
		s.Content = &c
	}
	s.CreatedAt = fromUnix(createdAt)
	s.UpdatedAt = fromUnix(updatedAt)
	return &s, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
