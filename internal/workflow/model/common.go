// Package model 定义工作流层的输入输出结构
package model

// GenerateOptions 单次模型调用的可选覆盖参数，零值表示使用提供商配置
type GenerateOptions struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Options 返回调用参数
func (o GenerateOptions) Options() GenerateOptions {
	return o
}

// OutlinePlan 大纲结构化输出
type OutlinePlan struct {
	Sections []string `json:"sections"`
}
