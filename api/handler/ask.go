package handler

import (
	"net/http"

	"github.com/fyerfyer/doc-RAG-pipeline/api/middleware"
	"github.com/fyerfyer/doc-RAG-pipeline/api/model"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AskHandler 处理问答相关的API请求
type AskHandler struct {
	service *services.ContextService // 上下文服务
	logger  *logrus.Logger           // 日志记录器
}

// NewAskHandler 创建新的问答处理器
func NewAskHandler(service *services.ContextService) *AskHandler {
	return &AskHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// Ask 处理问答请求
// POST /api/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest, "无效的请求参数"))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"identifier": req.Identifier,
		"question":   req.Question,
	}).Info("Question received")

	answer, err := h.service.Ask(c.Request.Context(), req.Identifier, req.Question)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"identifier": req.Identifier,
			"error":      err.Error(),
		}).Error("Failed to answer question")

		middleware.HandleError(c, middleware.NewBusinessError("问答失败", err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.AskResponse{
		Question: req.Question,
		Answer:   answer.Text,
		FromLLM:  answer.FromLLM,
		CacheHit: answer.CacheHit,
		Sources:  model.ConvertToSourceInfo(answer.Sources),
	}))
}
