package dto

import (
	"time"

	"ai-doc-platform-api/internal/domain/entity"
)

// SectionItem 手动创建段落条目
type SectionItem struct {
	Title      string `json:"title" binding:"required,max=255"`
	OrderIndex int    `json:"order_index" binding:"gte=0"`
}

// CreateSectionsRequest 批量创建段落请求；Titles 按大纲顺序编号
type CreateSectionsRequest struct {
	Sections []SectionItem `json:"sections,omitempty" binding:"omitempty,dive"`
	Titles   []string      `json:"titles,omitempty"`
}

// RefineSectionRequest 润色请求
type RefineSectionRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SectionResponse 段落响应
type SectionResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Title      string    `json:"title"`
	Content    *string   `json:"content"`
	OrderIndex int       `json:"order_index"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SectionListResponse 段落列表响应
type SectionListResponse struct {
	Sections []*SectionResponse `json:"sections"`
}

// SectionContentResponse 生成/润色结果
type SectionContentResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Version int    `json:"version"`
}

// SectionPreviewResponse 段落 HTML 预览
type SectionPreviewResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// ToSectionResponse 转换为段落响应
func ToSectionResponse(s *entity.Section) *SectionResponse {
	if s == nil {
		return nil
	}
	return &SectionResponse{
		ID:         s.ID,
		ProjectID:  s.ProjectID,
		Title:      s.Title,
		Content:    s.Content,
		OrderIndex: s.OrderIndex,
		Version:    s.Version,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ToSectionListResponse 转换为段落列表响应
func ToSectionListResponse(sections []*entity.Section) *SectionListResponse {
	out := make([]*SectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, ToSectionResponse(s))
	}
	return &SectionListResponse{Sections: out}
}

// ToSectionContentResponse 转换为生成/润色结果
func ToSectionContentResponse(s *entity.Section) *SectionContentResponse {
	return &SectionContentResponse{
		ID:      s.ID,
		Content: s.Body(),
		Version: s.Version,
	}
}
