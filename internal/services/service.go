package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/cache"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/llm"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/reader"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/repository"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/scraper"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/sourcecache"
	"github.com/fyerfyer/doc-RAG-pipeline/pkg/storage"
	"github.com/sirupsen/logrus"
)

// Ingestor 上下文构建所需的向量化能力
// *vectorizer.Vectorizer实现了该接口
type Ingestor interface {
	AddText(ctx context.Context, text string, metadata document.Metadata) ([]string, error)
	AddTexts(ctx context.Context, texts []string, metadatas []document.Metadata) ([]string, error)
	SimilaritySearch(ctx context.Context, query string, k int) ([]document.Document, error)
}

// IngestorFactory 为指定缓存条目创建向量化器
// 每个上下文的向量索引落在该条目的缓存目录下
type IngestorFactory func(entry sourcecache.Entry) (Ingestor, error)

// PageFetcher 网页抓取能力
type PageFetcher interface {
	Scrape(ctx context.Context, rawURL string) (*scraper.Result, error)
}

// PDFSource PDF文本提取能力
type PDFSource interface {
	Extract(ctx context.Context, source string) (string, error)
}

// DirectoryCollector 目录读取能力
type DirectoryCollector interface {
	Collect(ctx context.Context, root string) ([]reader.FileContent, error)
}

// Summarizer 文档摘要生成能力
// *llm.SummarizerService实现了该接口
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ContextResult 上下文构建结果
type ContextResult struct {
	Entry      sourcecache.Entry // 缓存条目
	Cached     bool              // 是否命中已有缓存
	ChunkCount int               // 新写入的分块数量
	ItemsOk    int               // 成功处理的条目数
	ItemsSkip  int               // 跳过的条目数
	ItemsFail  int               // 摘要生成失败的条目数（仍按原文入库）
}

// ContextService 上下文构建与问答服务
// 负责把各种数据来源转换为可检索的向量上下文，并基于上下文回答问题
type ContextService struct {
	policy      sourcecache.Policy           // 缓存命中判定策略
	factory     IngestorFactory              // 向量化器工厂
	rag         *llm.RAGService              // RAG服务
	fetcher     PageFetcher                  // 网页抓取器
	pdfSource   PDFSource                    // PDF提取器
	collector   DirectoryCollector           // 目录读取器
	summarizer  Summarizer                   // 文档摘要生成器（可选）
	answerCache cache.Cache                  // 问答结果缓存
	artifacts   storage.Storage              // 原始资料存储（可选）
	fileRepo    repository.FileRepository    // 文件摘要仓储（可选）
	ingestRepo  repository.IngestRepository  // 摄取记录仓储（可选）
	cacheTTL    time.Duration                // 问答缓存有效期
	searchLimit int                          // 检索结果数量
	logger      *logrus.Logger               // 日志记录器
}

// ServiceOption 上下文服务配置选项
type ServiceOption func(*ContextService)

// WithPageFetcher 设置网页抓取器
func WithPageFetcher(fetcher PageFetcher) ServiceOption {
	return func(s *ContextService) {
		s.fetcher = fetcher
	}
}

// WithPDFSource 设置PDF提取器
func WithPDFSource(source PDFSource) ServiceOption {
	return func(s *ContextService) {
		s.pdfSource = source
	}
}

// WithDirectoryCollector 设置目录读取器
func WithDirectoryCollector(collector DirectoryCollector) ServiceOption {
	return func(s *ContextService) {
		s.collector = collector
	}
}

// WithSummarizer 设置文档摘要生成器
// 配置后目录摄取会为每个文件生成摘要
func WithSummarizer(summarizer Summarizer) ServiceOption {
	return func(s *ContextService) {
		s.summarizer = summarizer
	}
}

// WithAnswerCache 设置问答结果缓存
func WithAnswerCache(c cache.Cache) ServiceOption {
	return func(s *ContextService) {
		s.answerCache = c
	}
}

// WithArtifactStorage 设置原始资料存储
func WithArtifactStorage(store storage.Storage) ServiceOption {
	return func(s *ContextService) {
		s.artifacts = store
	}
}

// WithFileRepository 设置文件摘要仓储
func WithFileRepository(repo repository.FileRepository) ServiceOption {
	return func(s *ContextService) {
		s.fileRepo = repo
	}
}

// WithIngestRepository 设置摄取记录仓储
func WithIngestRepository(repo repository.IngestRepository) ServiceOption {
	return func(s *ContextService) {
		s.ingestRepo = repo
	}
}

// WithCacheTTL 设置问答缓存有效期
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *ContextService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSearchLimit 设置检索结果数量
func WithSearchLimit(limit int) ServiceOption {
	return func(s *ContextService) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) ServiceOption {
	return func(s *ContextService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewContextService 创建上下文服务实例
func NewContextService(
	policy sourcecache.Policy,
	factory IngestorFactory,
	rag *llm.RAGService,
	opts ...ServiceOption,
) (*ContextService, error) {
	if policy == nil {
		return nil, fmt.Errorf("cache policy is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("ingestor factory is required")
	}
	if rag == nil {
		return nil, fmt.Errorf("rag service is required")
	}

	s := &ContextService{
		policy:      policy,
		factory:     factory,
		rag:         rag,
		cacheTTL:    24 * time.Hour,
		searchLimit: 5,
		logger:      logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// recordIngest 写入摄取记录，仓储未配置时为空操作
func (s *ContextService) recordIngest(record *models.IngestRecord) {
	if s.ingestRepo == nil {
		return
	}
	if err := s.ingestRepo.Create(record); err != nil {
		s.logger.WithError(err).Warn("failed to persist ingest record")
	}
}
