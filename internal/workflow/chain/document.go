package chain

import (
	"fmt"
	"strings"

	llmctx "ai-doc-platform-api/internal/domain/service"
	wfmodel "ai-doc-platform-api/internal/workflow/model"
	workflowport "ai-doc-platform-api/internal/workflow/port"
	workflowprompt "ai-doc-platform-api/internal/workflow/prompt"
)

// OutlineChain 大纲生成链（结构化输出）
type OutlineChain = PromptChain[*wfmodel.OutlineInput]

// SectionBodyChain 段落正文生成链（自由文本）
type SectionBodyChain = PromptChain[*wfmodel.SectionBodyInput]

// RefineChain 段落润色链（自由文本）
type RefineChain = PromptChain[*wfmodel.RefineInput]

// NewOutlineChain 创建大纲生成链
func NewOutlineChain(factory workflowport.ChatModelFactory) *OutlineChain {
	return &OutlineChain{
		factory:  factory,
		name:     "outline",
		workflow: llmctx.WorkflowOutline,
		promptID: workflowprompt.PromptOutlineV1,
		schema:   &ResponseSchema{Name: "outline_plan", Schema: outlineJSONSchema()},
		vars: func(in *wfmodel.OutlineInput) (map[string]any, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return map[string]any{
				"topic":          strings.TrimSpace(in.Topic),
				"document_label": in.DocumentLabel,
			}, nil
		},
	}
}

// NewSectionBodyChain 创建段落正文生成链
func NewSectionBodyChain(factory workflowport.ChatModelFactory) *SectionBodyChain {
	return &SectionBodyChain{
		factory:  factory,
		name:     "section_body",
		workflow: llmctx.WorkflowSectionBody,
		promptID: workflowprompt.PromptSectionBodyV1,
		vars: func(in *wfmodel.SectionBodyInput) (map[string]any, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return map[string]any{
				"document_title": strings.TrimSpace(in.DocumentTitle),
				"section_title":  strings.TrimSpace(in.SectionTitle),
				"document_label": in.DocumentLabel,
			}, nil
		},
	}
}

// NewRefineChain 创建段落润色链
func NewRefineChain(factory workflowport.ChatModelFactory) *RefineChain {
	return &RefineChain{
		factory:  factory,
		name:     "refine",
		workflow: llmctx.WorkflowRefine,
		promptID: workflowprompt.PromptRefineV1,
		vars: func(in *wfmodel.RefineInput) (map[string]any, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return map[string]any{
				"section_title":  strings.TrimSpace(in.SectionTitle),
				"document_label": in.DocumentLabel,
				"instruction":    strings.TrimSpace(in.Instruction),
				"content":        in.Content,
			}, nil
		},
	}
}

func outlineJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"sections"},
		"properties": map[string]any{
			"sections": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}
