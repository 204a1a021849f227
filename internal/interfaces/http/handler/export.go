package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-doc-platform-api/internal/application/export"
	"ai-doc-platform-api/internal/interfaces/http/dto"
)

// ExportHandler 文档导出处理器
type ExportHandler struct {
	export *export.Service
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{export: svc}
}

// Export 导出项目为 docx / pptx 附件
// @Summary 导出文档
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce application/vnd.openxmlformats-officedocument.presentationml.presentation
// @Param pid path string true "项目 ID"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	res, err := h.export.Export(c.Request.Context(), dto.BindProjectID(c), uid)
	if err != nil {
		respondError(c, "export document", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Header("Content-Length", strconv.Itoa(len(res.Data)))
	c.Data(http.StatusOK, res.MimeType, res.Data)
}
