package reader

import "fmt"

// ReaderError 目录读取错误类型
type ReaderError struct {
	Code    int    // 错误码
	Message string // 错误消息
	Err     error  // 底层错误（可选）
}

// Error 实现error接口
func (e ReaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reader error (code=%d): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("reader error (code=%d): %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e ReaderError) Unwrap() error {
	return e.Err
}

// 错误码常量
const (
	ErrCodeInvalidPath  = 4001 // 路径无效或不是目录
	ErrCodeUnreadable   = 4002 // 文件读取失败
	ErrCodeEmptyContent = 4003 // 目录中没有可读内容
)

// NewReaderError 创建新的读取错误
func NewReaderError(code int, message string) ReaderError {
	return ReaderError{Code: code, Message: message}
}

// WrapReaderError 包装底层错误
func WrapReaderError(code int, message string, err error) ReaderError {
	return ReaderError{Code: code, Message: message, Err: err}
}
