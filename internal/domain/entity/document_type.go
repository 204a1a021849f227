// Package entity 定义领域实体
package entity

import (
	"strings"

	apperrors "ai-doc-platform-api/pkg/errors"
)

// DocumentType 导出文档类型（封闭集合）
type DocumentType string

const (
	DocumentTypeDocx DocumentType = "docx"
	DocumentTypePptx DocumentType = "pptx"
)

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// DocumentTypes 返回全部支持的文档类型
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeDocx, DocumentTypePptx}
}

// ParseDocumentType 解析文档类型，兼容 word-document / slide-deck 别名
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docx", "word-document":
		return DocumentTypeDocx, nil
	case "pptx", "slide-deck":
		return DocumentTypePptx, nil
	default:
		return "", apperrors.ErrInvalidDocumentType.WithDetail(s)
	}
}

// Valid 是否属于支持集合
func (t DocumentType) Valid() bool {
	return t == DocumentTypeDocx || t == DocumentTypePptx
}

// Extension 文件扩展名（含点）
func (t DocumentType) Extension() string {
	switch t {
	case DocumentTypeDocx:
		return ".docx"
	case DocumentTypePptx:
		return ".pptx"
	}
	return ""
}

// MimeType 媒体类型
func (t DocumentType) MimeType() string {
	switch t {
	case DocumentTypeDocx:
		return mimeDocx
	case DocumentTypePptx:
		return mimePptx
	}
	return ""
}

// Label 面向模型提示词的可读名称
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeDocx:
		return "Word document"
	case DocumentTypePptx:
		return "PowerPoint presentation"
	}
	return string(t)
}
