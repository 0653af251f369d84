package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/ocr-review/api/handlers"
	"github.com/feichai0017/ocr-review/api/middleware"
	"github.com/feichai0017/ocr-review/internal/session"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, sessions *session.Manager, allowOrigins []string) {
	r.Use(middleware.CORS(allowOrigins))

	// 页面路由
	page := r.Group("/")
	page.Use(middleware.Session(sessions))
	{
		page.GET("", h.Review.Index)
		page.POST("select", h.Review.Select)
		page.POST("submit", h.Review.Submit)
		page.POST("panels/:index/toggle", h.Review.Toggle)
		page.GET("panels/:index/export", h.Review.Export)
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Review.Health)

	panel := v1.Group("/panel")
	panel.Use(middleware.Session(sessions))
	{
		panel.GET("", h.Review.GetPanel)
		panel.POST("/files", h.Review.PostFiles)
		panel.POST("/submit", h.Review.PostSubmit)
		panel.POST("/toggle/:index", h.Review.PostToggle)
		panel.GET("/export/:index", h.Review.Export)
	}
}
