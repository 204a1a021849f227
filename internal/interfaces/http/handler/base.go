// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ai-doc-platform-api/internal/interfaces/http/dto"
	"ai-doc-platform-api/internal/interfaces/http/middleware"
	apperrors "ai-doc-platform-api/pkg/errors"
	"ai-doc-platform-api/pkg/logger"
)

// respondError 将错误映射为 HTTP 响应；非 AppError 统一返回 500
func respondError(c *gin.Context, op string, err error) {
	if apperrors.IsAppError(err) {
		appErr := apperrors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(c.Request.Context(), op+" failed", err)
		}
		dto.AppError(c, appErr)
		return
	}
	logger.Error(c.Request.Context(), op+" failed", err)
	dto.InternalError(c, op+" failed")
}

// callerID 读取调用方身份，缺失时返回 401
func callerID(c *gin.Context) (string, bool) {
	id := middleware.GetUserIDFromGin(c)
	if id == "" {
		dto.AppError(c, apperrors.ErrUnauthorized.WithDetail("caller identity missing"))
		return "", false
	}
	return id, true
}

// bindJSON 绑定请求体，失败时返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("invalid request body: "+err.Error()))
		return false
	}
	return true
}
