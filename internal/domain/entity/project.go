package entity

import (
	"time"
)

// Project 文档项目
type Project struct {
	ID           string       `json:"id" gorm:"type:varchar(36);primaryKey"`
	OwnerID      string       `json:"owner_id" gorm:"type:varchar(128);index;not null"`
	Title        string       `json:"title" gorm:"type:varchar(255);not null"`
	DocumentType DocumentType `json:"document_type" gorm:"type:varchar(16);not null"`
	Topic        string       `json:"topic,omitempty" gorm:"type:text"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建新项目
func NewProject(ownerID, title string, docType DocumentType, topic string) *Project {
	now := time.Now().UTC()
	return &Project{
		OwnerID:      ownerID,
		Title:        title,
		DocumentType: docType,
		Topic:        topic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsOwnedBy 调用方是否为项目所有者
func (p *Project) IsOwnedBy(userID string) bool {
	return p != nil && userID != "" && p.OwnerID == userID
}
