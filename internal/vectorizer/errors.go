package vectorizer

import "fmt"

// VectorizerError 向量化流水线错误类型
type VectorizerError struct {
	Code    int    // 错误码
	Message string // 错误消息
	Err     error  // 底层错误（可选）
}

// Error 实现error接口
func (e VectorizerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vectorizer error (code=%d): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("vectorizer error (code=%d): %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e VectorizerError) Unwrap() error {
	return e.Err
}

// 错误码常量
const (
	ErrCodeValidation    = 2001 // 输入校验失败（如长度不匹配、批大小非正数）
	ErrCodeConfiguration = 2002 // 缺少必要配置
	ErrCodeEmptyContent  = 2003 // 没有可嵌入的内容
	ErrCodePersistence   = 2004 // 向量存储写入失败
)

// NewVectorizerError 创建新的向量化错误
func NewVectorizerError(code int, message string) VectorizerError {
	return VectorizerError{
		Code:    code,
		Message: message,
	}
}

// WrapVectorizerError 包装底层错误
func WrapVectorizerError(code int, message string, err error) VectorizerError {
	return VectorizerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode 判断错误是否为指定错误码的向量化错误
func IsCode(err error, code int) bool {
	var vErr VectorizerError
	if ok := asVectorizerError(err, &vErr); ok {
		return vErr.Code == code
	}
	return false
}

// asVectorizerError 提取向量化错误
func asVectorizerError(err error, target *VectorizerError) bool {
	for err != nil {
		if vErr, ok := err.(VectorizerError); ok {
			*target = vErr
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
