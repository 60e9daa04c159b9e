package vectorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/embedding"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/vectordb"
	"github.com/sirupsen/logrus"
)

// DefaultBatchSize 默认批处理大小
// 向量存储单次写入的数量上限
const DefaultBatchSize = 5000

// DefaultSearchLimit 默认检索结果数量
const DefaultSearchLimit = 5

// Vectorizer 文档向量化器
// 负责分块、嵌入和批量持久化，以及相似度检索
type Vectorizer struct {
	embedder  embedding.Client    // 嵌入模型客户端
	store     vectordb.Repository // 向量存储
	splitter  *document.Splitter  // 文本分段器
	batchSize int                 // 单次持久化的分块数量上限
	logger    *logrus.Logger      // 日志记录器

	// SQLite摄取配置（可选）
	sqlitePath      string   // SQLite数据库路径
	contentColumn   string   // 内容列名
	metadataColumns []string // 元数据列名
}

// Option 向量化器配置选项
type Option func(*Vectorizer)

// WithBatchSize 设置批处理大小
func WithBatchSize(size int) Option {
	return func(v *Vectorizer) {
		v.batchSize = size
	}
}

// WithSplitterConfig 设置分段器配置
func WithSplitterConfig(config document.SplitterConfig) Option {
	return func(v *Vectorizer) {
		v.splitter = document.NewSplitter(config)
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(v *Vectorizer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithSQLiteSource 配置SQLite摄取来源
func WithSQLiteSource(path string, contentColumn string, metadataColumns []string) Option {
	return func(v *Vectorizer) {
		v.sqlitePath = path
		v.contentColumn = contentColumn
		v.metadataColumns = metadataColumns
	}
}

// New 创建新的向量化器
func New(embedder embedding.Client, store vectordb.Repository, opts ...Option) (*Vectorizer, error) {
	v := &Vectorizer{
		embedder:  embedder,
		store:     store,
		splitter:  document.NewSplitter(document.DefaultSplitterConfig()),
		batchSize: DefaultBatchSize,
		logger:    logrus.New(),
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.embedder == nil {
		return nil, NewVectorizerError(ErrCodeConfiguration, "embedding client is required")
	}
	if v.store == nil {
		return nil, NewVectorizerError(ErrCodeConfiguration, "vector store is required")
	}
	if v.batchSize <= 0 {
		return nil, NewVectorizerError(ErrCodeValidation,
			fmt.Sprintf("batch size must be positive, got %d", v.batchSize))
	}

	return v, nil
}

// BatchSize 返回批处理大小
func (v *Vectorizer) BatchSize() int {
	return v.batchSize
}

// ProcessText 将文本包装为文档并切分为分块
// 调用方需保证文本非空，空文本返回EmptyContent错误
func (v *Vectorizer) ProcessText(text string, metadata document.Metadata) ([]document.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewVectorizerError(ErrCodeEmptyContent, "no content available to vectorize")
	}

	doc := document.NewDocument(text, metadata)
	return v.splitter.Split(doc), nil
}

// AddDocuments 切分并持久化一批文档
// 返回每个分块的存储ID，顺序为文档顺序、文档内分块顺序；
// 持久化失败会中止剩余批次并传播错误，已写入的批次保留（非原子写入）
func (v *Vectorizer) AddDocuments(ctx context.Context, docs []document.Document) ([]string, error) {
	chunks := v.splitter.SplitDocuments(docs)
	if len(chunks) == 0 {
		return []string{}, nil
	}

	ids, err := v.persistInBatches(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := v.store.Persist(); err != nil {
		return nil, WrapVectorizerError(ErrCodePersistence, "failed to persist vector store", err)
	}

	return ids, nil
}

// AddText 切分并持久化单条文本
func (v *Vectorizer) AddText(ctx context.Context, text string, metadata document.Metadata) ([]string, error) {
	chunks, err := v.ProcessText(text, metadata)
	if err != nil {
		return nil, err
	}

	ids, err := v.persistInBatches(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := v.store.Persist(); err != nil {
		return nil, WrapVectorizerError(ErrCodePersistence, "failed to persist vector store", err)
	}

	return ids, nil
}

// AddTexts 批量添加多条文本
// metadatas若非空则长度必须与texts一致，否则返回Validation错误
func (v *Vectorizer) AddTexts(ctx context.Context, texts []string, metadatas []document.Metadata) ([]string, error) {
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, NewVectorizerError(ErrCodeValidation,
			fmt.Sprintf("length of metadatas (%d) must match length of texts (%d)", len(metadatas), len(texts)))
	}

	docs := make([]document.Document, 0, len(texts))
	for i, text := range texts {
		var meta document.Metadata
		if metadatas != nil {
			meta = metadatas[i]
		}
		docs = append(docs, document.NewDocument(text, meta))
	}

	return v.AddDocuments(ctx, docs)
}

// ScoredChunk 带相似度得分的分块
type ScoredChunk struct {
	Chunk document.Document // 分块文档
	Score float32           // 相似度得分
}

// SimilaritySearch 检索与查询最相似的分块
// 结果按相似度降序排列，k不大于0或存储为空时返回空结果
func (v *Vectorizer) SimilaritySearch(ctx context.Context, query string, k int) ([]document.Document, error) {
	scored, err := v.SimilaritySearchWithScore(ctx, query, k)
	if err != nil {
		return nil, err
	}

	chunks := make([]document.Document, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, s.Chunk)
	}
	return chunks, nil
}

// SimilaritySearchWithScore 检索相似分块并附带原始得分
// 供调用方做阈值过滤或结果检查
func (v *Vectorizer) SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		return []ScoredChunk{}, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, NewVectorizerError(ErrCodeEmptyContent, "query cannot be empty")
	}

	count, err := v.store.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []ScoredChunk{}, nil
	}

	vector, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := v.store.Search(vector, vectordb.SearchFilter{MaxResults: k})
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		scored = append(scored, ScoredChunk{
			Chunk: document.Document{
				Content:  r.Record.Text,
				Metadata: document.MetadataFromMap(r.Record.Metadata),
			},
			Score: r.Score,
		})
	}
	return scored, nil
}
