package entity

import (
	"time"
)

// Section 文档段落（docx 中的标题+正文，pptx 中的一页幻灯片）
type Section struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ProjectID  string    `json:"project_id" gorm:"type:varchar(36);not null;uniqueIndex:uk_sections_project_order,priority:1"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Content    *string   `json:"content"`
	OrderIndex int       `json:"order_index" gorm:"not null;uniqueIndex:uk_sections_project_order,priority:2"`
	Version    int       `json:"version" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Section) TableName() string {
	return "sections"
}

// NewSection 创建未生成内容的段落
func NewSection(projectID, title string, orderIndex int) *Section {
	now := time.Now().UTC()
	return &Section{
		ProjectID:  projectID,
		Title:      title,
		OrderIndex: orderIndex,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewSectionsFromOutline 按大纲顺序创建段落，序号与数组下标一致（0..N-1）
func NewSectionsFromOutline(projectID string, titles []string) []*Section {
	sections := make([]*Section, 0, len(titles))
	for i, title := range titles {
		sections = append(sections, NewSection(projectID, title, i))
	}
	return sections
}

// HasContent 是否已有内容
func (s *Section) HasContent() bool {
	return s.Content != nil
}

// Body 返回内容，未生成时为空串
func (s *Section) Body() string {
	if s.Content == nil {
		return ""
	}
	return *s.Content
}
