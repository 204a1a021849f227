package model

// OutlineInput 大纲生成输入
type OutlineInput struct {
	GenerateOptions
	Topic string
	// DocumentLabel 文档类型的可读名称，如 "Word document"
	DocumentLabel string
}

// SectionBodyInput 段落正文生成输入
type SectionBodyInput struct {
	GenerateOptions
	DocumentTitle string
	SectionTitle  string
	DocumentLabel string
}

// RefineInput 段落润色输入
type RefineInput struct {
	GenerateOptions
	SectionTitle  string
	DocumentLabel string
	Content       string
	Instruction   string
}
