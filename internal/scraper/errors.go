package scraper

import "fmt"

// ScraperError 网页抓取错误类型
// 携带出错的URL便于调用方定位
type ScraperError struct {
	Code    int    // 错误码
	Message string // 错误消息
	URL     string // 出错的URL
	Err     error  // 底层错误（可选）
}

// Error 实现error接口
func (e ScraperError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scraper error (code=%d): %s [%s]: %v", e.Code, e.Message, e.URL, e.Err)
	}
	return fmt.Sprintf("scraper error (code=%d): %s [%s]", e.Code, e.Message, e.URL)
}

// Unwrap 返回底层错误
func (e ScraperError) Unwrap() error {
	return e.Err
}

// 错误码常量
const (
	ErrCodeInvalidURL   = 5001 // URL无效或协议不支持
	ErrCodeUnavailable  = 5002 // 页面不可达
	ErrCodeTimeout      = 5003 // 请求超时
	ErrCodeParseError   = 5004 // HTML解析失败
	ErrCodeEmptyContent = 5005 // 没有可提取的正文
)

// NewScraperError 创建新的抓取错误
func NewScraperError(code int, message string, url string) ScraperError {
	return ScraperError{Code: code, Message: message, URL: url}
}

// WrapScraperError 包装底层错误
func WrapScraperError(code int, message string, url string, err error) ScraperError {
	return ScraperError{Code: code, Message: message, URL: url, Err: err}
}
