package api

import (
	"github.com/fyerfyer/doc-RAG-pipeline/api/handler"
	"github.com/fyerfyer/doc-RAG-pipeline/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	contextHandler *handler.ContextHandler,
	askHandler *handler.AskHandler,
) *gin.Engine {
	router := gin.New()

	// 应用全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.SetTraceID())
	router.Use(middleware.ErrorMiddleware())

	api := router.Group("/api")
	{
		// 上下文摄取API
		contexts := api.Group("/contexts")
		{
			// 摄取本地目录 - POST /api/contexts/directory
			contexts.POST("/directory", contextHandler.IngestDirectory)

			// 摄取网页 - POST /api/contexts/web
			contexts.POST("/web", contextHandler.IngestWeb)

			// 摄取PDF - POST /api/contexts/pdf
			contexts.POST("/pdf", contextHandler.IngestPDF)
		}

		// 问答API - POST /api/ask
		api.POST("/ask", askHandler.Ask)

		// 健康检查API
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	return router
}
