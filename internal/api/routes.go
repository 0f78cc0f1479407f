package api

import (
	"github.com/gin-gonic/gin"

	"hireForm/internal/api/middleware"
	"hireForm/internal/auth"
)

// Handlers 汇总路由需要的处理器。WS 为 nil 时不注册实时通知端点。
type Handlers struct {
	Applications *ApplicationHandler
	Admin        *AdminHandler
	WS           *WsHandler
	Gate         auth.Gate
}

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(router *gin.Engine, h Handlers) {
	v1 := router.Group("/v1")
	{
		v1.POST("/applications", h.Applications.Submit)

		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", h.Admin.Login)
			if h.WS != nil {
				adminGroup.GET("/ws", h.WS.HandleConnection)
			}

			appsGroup := adminGroup.Group("/applications")
			appsGroup.Use(middleware.AdminGateMiddleware(h.Gate))
			{
				appsGroup.GET("", h.Admin.ListApplications)
				appsGroup.GET("/stats", h.Admin.Stats)
				appsGroup.GET("/export.csv", h.Admin.ExportCSV)
				appsGroup.POST("/export", h.Admin.ExportToStorage)
			}
		}
	}
}
