package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	// 大纲生成
	v1.POST("/generation/outline", h.Generation.Outline)

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:pid", h.Project.GetProject)
		projects.DELETE("/:pid", h.Project.DeleteProject)

		// 项目下的段落
		projects.GET("/:pid/sections", h.Project.ListSections)
		projects.POST("/:pid/sections/bulk", h.Project.CreateSections)

		// 导出
		projects.GET("/:pid/export", h.Export.Export)
	}

	// 段落生命周期
	sections := v1.Group("/sections")
	{
		sections.POST("/:sid/generate", h.Section.Generate)
		sections.POST("/:sid/refine", h.Section.Refine)
		sections.GET("/:sid/preview", h.Section.Preview)
	}
}
