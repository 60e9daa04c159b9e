package model

// IngestDirectoryRequest 目录摄取请求
type IngestDirectoryRequest struct {
	Path         string `json:"path" binding:"required"` // 目录路径
	ForceRebuild bool   `json:"force_rebuild"`           // 是否忽略已有缓存重新构建
}

// IngestWebRequest 网页摄取请求
type IngestWebRequest struct {
	URL           string `json:"url" binding:"required"` // 网页URL
	ForceRescrape bool   `json:"force_rescrape"`         // 是否忽略已有缓存重新抓取
}

// IngestPDFRequest PDF摄取请求
type IngestPDFRequest struct {
	Source       string `json:"source" binding:"required"` // 本地路径或URL
	ForceRebuild bool   `json:"force_rebuild"`             // 是否忽略已有缓存重新提取
}

// AskRequest 问答请求
type AskRequest struct {
	Identifier string `json:"identifier" binding:"required"` // 上下文来源标识（目录、URL等）
	Question   string `json:"question" binding:"required"`   // 用户问题
}
