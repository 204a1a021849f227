package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"ai-doc-platform-api/internal/application/project"
	"ai-doc-platform-api/internal/application/section"
	"ai-doc-platform-api/internal/interfaces/http/dto"
	apperrors "ai-doc-platform-api/pkg/errors"
)

// SectionHandler 段落生成、润色与预览
type SectionHandler struct {
	manager  *section.Manager
	projects *project.Service
	markdown goldmark.Markdown
}

// NewSectionHandler 创建段落处理器
func NewSectionHandler(manager *section.Manager, projects *project.Service) *SectionHandler {
	return &SectionHandler{
		manager:  manager,
		projects: projects,
		// 模型正文中的原始 HTML 不透传
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Generate 生成并覆盖段落内容
// @Summary 生成段落内容
// @Tags Sections
// @Produce json
// @Param sid path string true "段落 ID"
// @Success 200 {object} dto.Response[dto.SectionContentResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sections/{sid}/generate [post]
func (h *SectionHandler) Generate(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	sec, err := h.manager.Generate(c.Request.Context(), dto.BindSectionID(c), uid)
	if err != nil {
		respondError(c, "generate section", err)
		return
	}
	dto.Success(c, dto.ToSectionContentResponse(sec))
}

// Refine 按指令润色段落内容
// @Summary 润色段落内容
// @Tags Sections
// @Accept json
// @Produce json
// @Param sid path string true "段落 ID"
// @Param body body dto.RefineSectionRequest true "润色指令"
// @Success 200 {object} dto.Response[dto.SectionContentResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/sections/{sid}/refine [post]
func (h *SectionHandler) Refine(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	sid := dto.BindSectionID(c)

	var req dto.RefineSectionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		// 请求体错误在存在性与所有权校验之后报告
		if _, err := h.projects.GetSection(c.Request.Context(), sid, uid); err != nil {
			respondError(c, "refine section", err)
			return
		}
		dto.AppError(c, apperrors.ErrInvalidParam.
			WithDetail("invalid request body: "+bindErr.Error()).
			WithError(bindErr))
		return
	}

	sec, err := h.manager.Refine(c.Request.Context(), sid, uid, req.Prompt)
	if err != nil {
		respondError(c, "refine section", err)
		return
	}
	dto.Success(c, dto.ToSectionContentResponse(sec))
}

// Preview 将段落 Markdown 内容渲染为 HTML
// @Summary 段落预览
// @Tags Sections
// @Produce json
// @Param sid path string true "段落 ID"
// @Success 200 {object} dto.Response[dto.SectionPreviewResponse]
// @Router /v1/sections/{sid}/preview [get]
func (h *SectionHandler) Preview(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	sec, err := h.projects.GetSection(c.Request.Context(), dto.BindSectionID(c), uid)
	if err != nil {
		respondError(c, "preview section", err)
		return
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(sec.Body()), &buf); err != nil {
		respondError(c, "preview section", apperrors.ErrInternalError.WithError(err))
		return
	}
	dto.Success(c, &dto.SectionPreviewResponse{
		ID:    sec.ID,
		Title: sec.Title,
		HTML:  buf.String(),
	})
}
