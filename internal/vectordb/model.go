package vectordb

import (
	"errors"
	"time"
)

// 常用错误定义
var (
	ErrEmptyVector      = errors.New("empty vector")
	ErrInvalidDimension = errors.New("vector dimension mismatch")
	ErrStoreClosed      = errors.New("vector store is closed")
)

// Record 向量记录模型
// 一个分块的文本、向量表示及元数据；写入后只追加不修改
type Record struct {
	ID        string            // 存储分配的唯一标识符
	SourceID  string            // 来源标识（文件路径或URL）
	Text      string            // 分块文本内容
	Vector    []float32         // 向量表示
	Metadata  map[string]string // 分块元数据
	CreatedAt time.Time         // 创建时间
}

// DistanceType 向量距离计算方法
type DistanceType string

const (
	// Cosine 余弦相似度
	Cosine DistanceType = "cosine"
	// DotProduct 点积
	DotProduct DistanceType = "dot"
	// Euclidean 欧几里得距离
	Euclidean DistanceType = "l2"
)

// SearchResult 搜索结果
type SearchResult struct {
	Record   Record  // 向量记录
	Score    float32 // 相似度得分（0-1，越大越相似）
	Distance float32 // 原始距离
}

// SearchFilter 搜索过滤条件
type SearchFilter struct {
	SourceIDs  []string // 按来源标识过滤
	MinScore   float32  // 最小相似度分数
	MaxResults int      // 最大返回结果数
}

// DefaultSearchFilter 返回默认的搜索过滤器
func DefaultSearchFilter() SearchFilter {
	return SearchFilter{
		MinScore:   0.0,
		MaxResults: 5,
	}
}

// Repository 向量存储接口
// 单写者模型：并发写入同一存储路径是未定义行为，由调用方避免
type Repository interface {
	// AddBatch 批量追加记录，返回存储分配的ID，顺序与输入一致
	AddBatch(records []Record) ([]string, error)

	// Search 相似度搜索，结果按得分降序排列
	Search(vector []float32, filter SearchFilter) ([]SearchResult, error)

	// Count 获取记录总数
	Count() (int, error)

	// Dimension 返回向量维度
	Dimension() int

	// Persist 将索引刷写到持久化存储
	Persist() error

	// Close 关闭存储
	Close() error
}

// Config 向量存储配置
type Config struct {
	Type              string       // 存储类型，如 "memory", "faiss"
	Path              string       // 存储目录路径
	Collection        string       // 集合名称
	Dimension         int          // 向量维度
	DistanceType      DistanceType // 距离计算类型
	CreateIfNotExists bool         // 如果不存在是否创建
}

// Factory 向量存储工厂函数类型
type Factory func(config Config) (Repository, error)

// RepositoryRegistry 注册可用的向量存储实现
var RepositoryRegistry = map[string]Factory{}

// RegisterRepository 注册向量存储工厂函数
func RegisterRepository(name string, factory Factory) {
	RepositoryRegistry[name] = factory
}

// NewRepository 根据配置创建向量存储实例
func NewRepository(config Config) (Repository, error) {
	factory, ok := RepositoryRegistry[config.Type]
	if !ok {
		// 默认使用内存实现
		factory = NewMemoryRepository
	}
	return factory(config)
}
