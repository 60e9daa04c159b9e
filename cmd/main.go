package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/doc-RAG-pipeline/api"
	"github.com/fyerfyer/doc-RAG-pipeline/api/handler"
	ragconfig "github.com/fyerfyer/doc-RAG-pipeline/config"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/cache"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/database"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/embedding"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/llm"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/pdf"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/reader"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/repository"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/scraper"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/services"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/sourcecache"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/vectordb"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/vectorizer"
	"github.com/fyerfyer/doc-RAG-pipeline/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 命令行选项
type flags struct {
	ConfigFile string // 配置文件路径
	Mode       string // 运行模式 (debug/release)
	LogLevel   string // 日志级别
	LogFile    string // 日志文件路径，为空时输出到标准输出
}

func main() {
	f := parseFlags()

	// 加载.env中的环境变量（如果存在）
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment variables from .env")
	}

	cfg, err := ragconfig.Load(f.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	gin.SetMode(f.Mode)
	logger := setupLogger(f.LogLevel, f.LogFile)
	logger.Info("Starting document RAG pipeline...")

	// 初始化数据库
	dbConfig := database.DefaultConfig()
	dbConfig.Type = cfg.Database.Type
	dbConfig.DSN = cfg.Database.DSN
	if err := database.Setup(dbConfig, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 创建原始资料存储
	artifacts, err := setupStorage(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize artifact storage: %v", err)
	}

	// 创建嵌入客户端
	embedClient, err := embedding.NewClient(cfg.Embed.Provider,
		embedding.WithBaseURL(cfg.Embed.Endpoint),
		embedding.WithModel(cfg.Embed.Model),
		embedding.WithDimensions(cfg.Embed.Dimensions),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize embedding client: %v", err)
	}

	// 创建大语言模型客户端
	llmClient, err := llm.NewClient(cfg.LLM.Provider,
		llm.WithBaseURL(cfg.LLM.Endpoint),
		llm.WithModel(cfg.LLM.Model),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTemperature(cfg.LLM.Temperature),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize LLM client: %v", err)
	}

	ragService := llm.NewRAG(llmClient,
		llm.WithRAGMaxTokens(cfg.LLM.MaxTokens),
		llm.WithRAGTemperature(cfg.LLM.Temperature),
	)

	// 创建问答结果缓存
	var answerCache cache.Cache
	if cfg.Cache.Enable {
		answerCache, err = cache.NewCache(cache.Config{
			Type:          cfg.Cache.Type,
			RedisAddr:     cfg.Cache.Address,
			RedisPassword: cfg.Cache.Password,
			RedisDB:       cfg.Cache.DB,
			DefaultTTL:    time.Duration(cfg.Cache.TTL) * time.Second,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize cache: %v", err)
		}
	}

	// 上下文缓存策略：同一来源只构建一次向量索引
	policy := sourcecache.NewDirPolicy(cfg.Context.BaseDir)

	// 每个上下文的向量索引落在各自的缓存目录中
	splitterConfig := document.SplitterConfig{
		ChunkSize:    cfg.Document.ChunkSize,
		ChunkOverlap: cfg.Document.ChunkOverlap,
		Separators:   document.DefaultSeparators(),
	}
	factory := func(entry sourcecache.Entry) (services.Ingestor, error) {
		store, err := vectordb.NewRepository(vectordb.Config{
			Type:              cfg.VectorDB.Type,
			Path:              entry.Path,
			Collection:        entry.Digest,
			Dimension:         cfg.VectorDB.Dim,
			DistanceType:      vectordb.DistanceType(cfg.VectorDB.Distance),
			CreateIfNotExists: true,
		})
		if err != nil {
			return nil, err
		}
		return vectorizer.New(embedClient, store,
			vectorizer.WithBatchSize(cfg.Vectorizer.BatchSize),
			vectorizer.WithSplitterConfig(splitterConfig),
			vectorizer.WithLogger(logger),
		)
	}

	// 创建各数据来源的读取组件
	scraperOptions := []scraper.Option{
		scraper.WithTimeout(time.Duration(cfg.Scraper.Timeout) * time.Second),
		scraper.WithMinTextLength(cfg.Scraper.MinTextLength),
		scraper.WithLogger(logger),
	}
	if cfg.Scraper.UserAgent != "" {
		scraperOptions = append(scraperOptions, scraper.WithUserAgent(cfg.Scraper.UserAgent))
	}
	pageScraper := scraper.New(scraperOptions...)
	pdfExtractor := pdf.New(pdf.WithLogger(logger))
	dirReader := setupReader(cfg, logger)

	// 初始化上下文服务
	serviceOptions := []services.ServiceOption{
		services.WithPageFetcher(pageScraper),
		services.WithPDFSource(pdfExtractor),
		services.WithDirectoryCollector(dirReader),
		services.WithArtifactStorage(artifacts),
		services.WithFileRepository(repository.NewFileRepository()),
		services.WithIngestRepository(repository.NewIngestRepository()),
		services.WithSearchLimit(cfg.Context.SearchLimit),
		services.WithLogger(logger),
	}
	if answerCache != nil {
		serviceOptions = append(serviceOptions,
			services.WithAnswerCache(answerCache),
			services.WithCacheTTL(time.Duration(cfg.Cache.TTL)*time.Second),
		)
	}
	if cfg.Context.Summarize {
		serviceOptions = append(serviceOptions,
			services.WithSummarizer(llm.NewSummarizer(llmClient)))
	}

	contextService, err := services.NewContextService(policy, factory, ragService, serviceOptions...)
	if err != nil {
		logger.Fatalf("Failed to initialize context service: %v", err)
	}

	// 设置路由
	r := api.SetupRouter(
		handler.NewContextHandler(contextService),
		handler.NewAskHandler(contextService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to config file")
	flag.StringVar(&f.Mode, "mode", "release", "Run mode (debug/release)")
	flag.StringVar(&f.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	flag.StringVar(&f.LogFile, "log-file", "", "Log file path (stdout when empty)")

	flag.Parse()
	return f
}

// setupLogger 初始化日志记录器
// 指定日志文件时启用滚动切割
func setupLogger(level string, logFile string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if logFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // 天
			Compress:   true,
		})
	}

	return logger
}

// setupStorage 根据配置创建原始资料存储
func setupStorage(cfg *ragconfig.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "minio":
		return storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
		})
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			Path: cfg.Storage.Path,
		})
	}
}

// setupReader 根据配置创建目录读取器
func setupReader(cfg *ragconfig.Config, logger *logrus.Logger) *reader.DirectoryReader {
	opts := []reader.DirectoryOption{
		reader.WithReaderLogger(logger),
	}
	if len(cfg.Reader.Extensions) > 0 {
		opts = append(opts, reader.WithExtensions(cfg.Reader.Extensions))
	}
	if len(cfg.Reader.Ignore) > 0 {
		opts = append(opts, reader.WithIgnorePatterns(cfg.Reader.Ignore))
	}
	if cfg.Reader.MaxFileSize > 0 {
		opts = append(opts, reader.WithMaxFileSize(cfg.Reader.MaxFileSize))
	}
	if cfg.Reader.MaxDepth > 0 {
		opts = append(opts, reader.WithMaxDepth(cfg.Reader.MaxDepth))
	}
	return reader.NewDirectoryReader(opts...)
}
