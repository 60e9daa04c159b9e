package handler

import (
	"net/http"

	"github.com/fyerfyer/doc-RAG-pipeline/api/middleware"
	"github.com/fyerfyer/doc-RAG-pipeline/api/model"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContextHandler 处理上下文摄取相关的API请求
type ContextHandler struct {
	service *services.ContextService // 上下文服务
	logger  *logrus.Logger           // 日志记录器
}

// NewContextHandler 创建新的上下文处理器
func NewContextHandler(service *services.ContextService) *ContextHandler {
	return &ContextHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// IngestDirectory 处理目录摄取请求
// POST /api/contexts/directory
func (h *ContextHandler) IngestDirectory(c *gin.Context) {
	var req model.IngestDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest, "无效的请求参数"))
		return
	}

	result, err := h.service.DirectoryContext(c.Request.Context(), req.Path, req.ForceRebuild)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"path":  req.Path,
			"error": err.Error(),
		}).Error("Directory ingestion failed")

		middleware.HandleError(c, middleware.NewBusinessError("目录摄取失败", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(toIngestResponse(result)))
}

// IngestWeb 处理网页摄取请求
// POST /api/contexts/web
func (h *ContextHandler) IngestWeb(c *gin.Context) {
	var req model.IngestWebRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest, "无效的请求参数"))
		return
	}

	result, err := h.service.WebContext(c.Request.Context(), req.URL, req.ForceRescrape)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"url":   req.URL,
			"error": err.Error(),
		}).Error("Web ingestion failed")

		middleware.HandleError(c, middleware.NewBusinessError("网页摄取失败", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(toIngestResponse(result)))
}

// IngestPDF 处理PDF摄取请求
// POST /api/contexts/pdf
func (h *ContextHandler) IngestPDF(c *gin.Context) {
	var req model.IngestPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest, "无效的请求参数"))
		return
	}

	result, err := h.service.PDFContext(c.Request.Context(), req.Source, req.ForceRebuild)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"source": req.Source,
			"error":  err.Error(),
		}).Error("PDF ingestion failed")

		middleware.HandleError(c, middleware.NewBusinessError("PDF摄取失败", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(toIngestResponse(result)))
}

// toIngestResponse 转换摄取结果为响应结构
func toIngestResponse(result *services.ContextResult) model.IngestResponse {
	return model.IngestResponse{
		Digest:     result.Entry.Digest,
		Cached:     result.Cached,
		ChunkCount: result.ChunkCount,
		ItemsOk:    result.ItemsOk,
		ItemsSkip:  result.ItemsSkip,
		ItemsFail:  result.ItemsFail,
	}
}
