package model

import "github.com/fyerfyer/doc-RAG-pipeline/internal/document"

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// IngestResponse 摄取响应
type IngestResponse struct {
	Digest     string `json:"digest"`      // 上下文缓存摘要
	Cached     bool   `json:"cached"`      // 是否命中已有缓存
	ChunkCount int    `json:"chunk_count"` // 新写入的分块数量
	ItemsOk    int    `json:"items_ok"`    // 成功处理的条目数
	ItemsSkip  int    `json:"items_skip"`  // 跳过的条目数
	ItemsFail  int    `json:"items_fail"`  // 摘要生成失败的条目数
}

// SourceInfo 问答来源信息
type SourceInfo struct {
	Text   string `json:"text"`   // 相关文本分块
	Source string `json:"source"` // 来源标识（文件路径或URL）
}

// AskResponse 问答响应
type AskResponse struct {
	Question string       `json:"question"`  // 用户问题
	Answer   string       `json:"answer"`    // 生成的回答
	FromLLM  bool         `json:"from_llm"`  // 是否由大模型生成
	CacheHit bool         `json:"cache_hit"` // 是否命中问答缓存
	Sources  []SourceInfo `json:"sources"`   // 来源信息
}

// ConvertToSourceInfo 将检索到的分块转换为来源信息
func ConvertToSourceInfo(chunks []document.Document) []SourceInfo {
	if len(chunks) == 0 {
		return []SourceInfo{}
	}

	sources := make([]SourceInfo, len(chunks))
	for i, chunk := range chunks {
		sources[i] = SourceInfo{
			Text:   chunk.Content,
			Source: chunk.Metadata.Source,
		}
	}
	return sources
}
