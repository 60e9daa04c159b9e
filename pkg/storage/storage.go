package storage

import (
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ObjectInfo 存储对象元数据结构
type ObjectInfo struct {
	Key      string    // 对象键（调用方指定，如缓存摘要+文件名）
	Size     int64     // 对象大小(字节)
	MimeType string    // MIME类型
	ModTime  time.Time // 最后修改时间
}

// Storage 原始资料存储接口
// 用于保存摄取来源的原始快照（下载的PDF、抓取的网页等），
// 可以有不同实现(本地文件系统、MinIO等)
type Storage interface {
	// Save 以指定键保存对象，已存在时覆盖
	Save(reader io.Reader, key string) (ObjectInfo, error)

	// Get 获取对象内容
	Get(key string) (io.ReadCloser, error)

	// Delete 删除对象
	Delete(key string) error

	// Exists 检查对象是否存在
	Exists(key string) (bool, error)

	// List 列出指定前缀下的所有对象
	List(prefix string) ([]ObjectInfo, error)
}

// getMimeType 简单根据文件扩展名判断MIME类型
func getMimeType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
