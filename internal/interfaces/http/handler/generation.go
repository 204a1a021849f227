package handler

import (
	"github.com/gin-gonic/gin"

	"ai-doc-platform-api/internal/application/generation"
	"ai-doc-platform-api/internal/application/outline"
	"ai-doc-platform-api/internal/interfaces/http/dto"
)

// GenerationHandler 大纲生成处理器
type GenerationHandler struct {
	planner   *outline.Planner
	generator generation.Generator
}

// NewGenerationHandler 创建大纲生成处理器
func NewGenerationHandler(planner *outline.Planner, generator generation.Generator) *GenerationHandler {
	return &GenerationHandler{planner: planner, generator: generator}
}

// Outline 为主题生成有序段落标题
// @Summary 生成大纲
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateOutlineRequest true "主题与文档类型"
// @Success 200 {object} dto.Response[dto.OutlineResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/generation/outline [post]
func (h *GenerationHandler) Outline(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	var req dto.GenerateOutlineRequest
	if !bindJSON(c, &req) {
		return
	}

	titles, err := h.planner.Plan(c.Request.Context(), req.Topic, req.DocumentType)
	if err != nil {
		respondError(c, "generate outline", err)
		return
	}
	dto.Success(c, &dto.OutlineResponse{Outline: titles, Mode: h.generator.Mode()})
}
