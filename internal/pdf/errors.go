package pdf

import "fmt"

// PDFError PDF提取错误类型
type PDFError struct {
	Code    int    // 错误码
	Message string // 错误消息
	Err     error  // 底层错误（可选）
}

// Error 实现error接口
func (e PDFError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdf error (code=%d): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("pdf error (code=%d): %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e PDFError) Unwrap() error {
	return e.Err
}

// 错误码常量
const (
	ErrCodeNotFound     = 6001 // 文件不存在或URL不可达
	ErrCodeExtraction   = 6002 // 文本提取失败
	ErrCodeEmptyContent = 6003 // PDF中没有可提取的文本
	ErrCodeTimeout      = 6004 // 下载超时
)

// NewPDFError 创建新的PDF错误
func NewPDFError(code int, message string) PDFError {
	return PDFError{Code: code, Message: message}
}

// WrapPDFError 包装底层错误
func WrapPDFError(code int, message string, err error) PDFError {
	return PDFError{Code: code, Message: message, Err: err}
}
