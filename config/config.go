package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	VectorDB   VectorDBConfig   `mapstructure:"vectordb"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Embed      EmbedConfig      `mapstructure:"embed"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Document   DocumentConfig   `mapstructure:"document"`
	Vectorizer VectorizerConfig `mapstructure:"vectorizer"`
	Context    ContextConfig    `mapstructure:"context"`
	Reader     ReaderConfig     `mapstructure:"reader"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"` // 服务器主机
	Port int    `mapstructure:"port"` // 服务器端口
}

// StorageConfig 原始资料存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type"`     // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`     // 本地存储路径
	Bucket    string `mapstructure:"bucket"`   // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"` // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// VectorDBConfig 向量存储配置
type VectorDBConfig struct {
	Type     string `mapstructure:"type"`     // 向量存储类型：faiss 或 memory
	Dim      int    `mapstructure:"dim"`      // 向量维度
	Distance string `mapstructure:"distance"` // 距离度量方式：cosine, l2, dot
}

// LLMConfig 大语言模型配置
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`    // 提供商：ollama等
	Model       string  `mapstructure:"model"`       // 模型名称
	Endpoint    string  `mapstructure:"endpoint"`    // API端点
	MaxTokens   int     `mapstructure:"max_tokens"`  // 最大生成token数量
	Temperature float32 `mapstructure:"temperature"` // 采样温度
}

// EmbedConfig 向量嵌入模型配置
type EmbedConfig struct {
	Provider   string `mapstructure:"provider"`   // 提供商：ollama等
	Model      string `mapstructure:"model"`      // 模型名称
	Endpoint   string `mapstructure:"endpoint"`   // API端点
	Dimensions int    `mapstructure:"dimensions"` // 向量维度
}

// CacheConfig 问答缓存配置
type CacheConfig struct {
	Enable   bool   `mapstructure:"enable"`   // 是否启用缓存
	Type     string `mapstructure:"type"`     // 缓存类型：memory 或 redis
	Address  string `mapstructure:"address"`  // Redis地址
	Password string `mapstructure:"password"` // Redis密码
	DB       int    `mapstructure:"db"`       // Redis数据库
	TTL      int    `mapstructure:"ttl"`      // 缓存TTL（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // 数据库类型: sqlite
	DSN  string `mapstructure:"dsn"`  // 数据源名称
}

// DocumentConfig 文档分块配置
type DocumentConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`    // 分块大小
	ChunkOverlap int `mapstructure:"chunk_overlap"` // 分块重叠大小
}

// VectorizerConfig 向量化配置
type VectorizerConfig struct {
	BatchSize int `mapstructure:"batch_size"` // 单批持久化的分块数量上限
}

// ContextConfig 上下文缓存配置
type ContextConfig struct {
	BaseDir     string `mapstructure:"base_dir"`     // 上下文缓存根目录
	SearchLimit int    `mapstructure:"search_limit"` // 检索结果数量
	Summarize   bool   `mapstructure:"summarize"`    // 目录摄取时是否生成文件摘要
}

// ReaderConfig 目录读取配置
type ReaderConfig struct {
	Extensions  []string `mapstructure:"extensions"`    // 允许读取的扩展名
	Ignore      []string `mapstructure:"ignore"`        // 忽略的路径模式
	MaxFileSize int64    `mapstructure:"max_file_size"` // 单文件大小上限（字节）
	MaxDepth    int      `mapstructure:"max_depth"`     // 目录递归深度上限
}

// ScraperConfig 网页抓取配置
type ScraperConfig struct {
	Timeout       int    `mapstructure:"timeout"`         // 请求超时（秒）
	UserAgent     string `mapstructure:"user_agent"`      // 请求User-Agent
	MinTextLength int    `mapstructure:"min_text_length"` // 文本块最小长度
}

// Load 从文件和环境变量加载配置
// 找不到配置文件时使用默认值
func Load(configPath string) (*Config, error) {
	var config Config

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else if strings.Contains(err.Error(), "no such file") {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	// 支持环境变量覆盖，如RAG_SERVER_PORT
	v.SetEnvPrefix("rag")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	return &config, nil
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./data/artifacts")
	v.SetDefault("storage.bucket", "doc-rag")
	v.SetDefault("storage.use_ssl", false)

	// 向量存储默认配置
	v.SetDefault("vectordb.type", "faiss")
	v.SetDefault("vectordb.dim", 1024)
	v.SetDefault("vectordb.distance", "cosine")

	// LLM默认配置
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "llama3")
	v.SetDefault("llm.endpoint", "http://localhost:11434")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.7)

	// Embedding默认配置
	v.SetDefault("embed.provider", "ollama")
	v.SetDefault("embed.model", "mxbai-embed-large")
	v.SetDefault("embed.endpoint", "http://localhost:11434")
	v.SetDefault("embed.dimensions", 1024)

	// 缓存默认配置
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 86400)

	// 数据库默认配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/pipeline.db")

	// 文档分块默认配置
	v.SetDefault("document.chunk_size", 500)
	v.SetDefault("document.chunk_overlap", 200)

	// 向量化默认配置
	v.SetDefault("vectorizer.batch_size", 5000)

	// 上下文缓存默认配置
	v.SetDefault("context.base_dir", "./data/contexts")
	v.SetDefault("context.search_limit", 5)
	v.SetDefault("context.summarize", false)

	// 目录读取默认配置
	v.SetDefault("reader.max_file_size", 2*1024*1024)
	v.SetDefault("reader.max_depth", 16)

	// 网页抓取默认配置
	v.SetDefault("scraper.timeout", 30)
	v.SetDefault("scraper.min_text_length", 20)
}
