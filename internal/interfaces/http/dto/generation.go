package dto

// GenerateOutlineRequest 大纲生成请求
type GenerateOutlineRequest struct {
	Topic        string `json:"topic" binding:"required,max=2000"`
	DocumentType string `json:"document_type" binding:"required"`
}

// OutlineResponse 大纲生成响应
type OutlineResponse struct {
	Outline []string `json:"outline"`
	Mode    string   `json:"mode"`
}
