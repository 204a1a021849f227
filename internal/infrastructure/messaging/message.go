// Package messaging 提供基于 Redis Streams 的事件发布
package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message 消息信封
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	ProjectID string            `json:"project_id"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(msgType, projectID string, payload any) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		ProjectID: projectID,
		Payload:   payloadBytes,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流名称
type Stream string

// DefaultSectionStream 段落事件默认流
const DefaultSectionStream Stream = "stream:section:events"

// 段落事件类型
const (
	EventSectionGenerated = "section.generated"
	EventSectionRefined   = "section.refined"
)

// SectionEvent 段落内容变更事件
type SectionEvent struct {
	SectionID     string `json:"section_id"`
	ProjectID     string `json:"project_id"`
	UserID        string `json:"user_id"`
	Version       int    `json:"version"`
	ContentLength int    `json:"content_length"`
}
