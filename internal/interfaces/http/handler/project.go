package handler

import (
	"github.com/gin-gonic/gin"

	"ai-doc-platform-api/internal/application/project"
	"ai-doc-platform-api/internal/interfaces/http/dto"
	apperrors "ai-doc-platform-api/pkg/errors"
)

// ProjectHandler 项目与段落处理器
type ProjectHandler struct {
	projects *project.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(projects *project.Service) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects 获取调用方的项目列表
// @Summary 获取项目列表
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	pageReq := dto.BindPage(c)

	result, err := h.projects.ListProjects(c.Request.Context(), uid, pageReq.Pagination())
	if err != nil {
		respondError(c, "list projects", err)
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToProjectListResponse(result.Items), meta)
}

// CreateProject 创建项目
// @Summary 创建项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.projects.CreateProject(c.Request.Context(), uid, req.Title, req.DocumentType, req.Topic)
	if err != nil {
		respondError(c, "create project", err)
		return
	}
	dto.Created(c, dto.ToProjectResponse(p))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	p, err := h.projects.GetProject(c.Request.Context(), dto.BindProjectID(c), uid)
	if err != nil {
		respondError(c, "get project", err)
		return
	}
	dto.Success(c, dto.ToProjectResponse(p))
}

// DeleteProject 删除项目及其段落
// @Summary 删除项目
// @Tags Projects
// @Param pid path string true "项目 ID"
// @Success 204
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), dto.BindProjectID(c), uid); err != nil {
		respondError(c, "delete project", err)
		return
	}
	dto.NoContent(c)
}

// CreateSections 批量创建段落：显式序号或按大纲顺序
// @Summary 批量创建段落
// @Tags Sections
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.CreateSectionsRequest true "段落"
// @Success 201 {object} dto.Response[dto.SectionListResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/sections/bulk [post]
func (h *ProjectHandler) CreateSections(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateSectionsRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	projectID := dto.BindProjectID(c)

	switch {
	case len(req.Sections) > 0 && len(req.Titles) > 0:
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("use either sections or titles"))
	case len(req.Titles) > 0:
		sections, err := h.projects.ApplyOutline(ctx, projectID, uid, req.Titles)
		if err != nil {
			respondError(c, "apply outline", err)
			return
		}
		dto.Created(c, dto.ToSectionListResponse(sections))
	default:
		items := make([]project.NewSection, 0, len(req.Sections))
		for _, s := range req.Sections {
			items = append(items, project.NewSection{Title: s.Title, OrderIndex: s.OrderIndex})
		}
		sections, err := h.projects.CreateSections(ctx, projectID, uid, items)
		if err != nil {
			respondError(c, "create sections", err)
			return
		}
		dto.Created(c, dto.ToSectionListResponse(sections))
	}
}

// ListSections 获取项目段落（按序号升序）
// @Summary 获取段落列表
// @Tags Sections
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.SectionListResponse]
// @Router /v1/projects/{pid}/sections [get]
func (h *ProjectHandler) ListSections(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	sections, err := h.projects.ListSections(c.Request.Context(), dto.BindProjectID(c), uid)
	if err != nil {
		respondError(c, "list sections", err)
		return
	}
	dto.Success(c, dto.ToSectionListResponse(sections))
}
