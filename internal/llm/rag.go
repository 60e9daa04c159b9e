package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// FallbackAnswer 检索不到任何上下文时返回的固定回答
// 此时不会调用大模型
const FallbackAnswer = "抱歉，我没有找到相关信息，请尝试换个问法或先导入相关文档。"

// DefaultRAGTemplate 默认RAG提示词模板
// 包含变量：
// {{.Question}} - 用户问题
// {{.Context}} - 检索的上下文
const DefaultRAGTemplate = `请你作为一个智能问答助手，基于下面提供的参考上下文回答问题。
如果参考上下文中没有足够信息回答问题，请直接说"抱歉，我没有找到相关信息"，不要猜测或编造信息。

参考上下文:
{{.Context}}

用户问题: {{.Question}}

请直接回答问题，不要重复问题内容，不要说参考上下文之类的话语。`

// StrictRAGTemplate 严格模式RAG提示词模板
// 只允许使用上下文中出现的信息作答
const StrictRAGTemplate = `请你作为一个智能问答助手，只能使用下面参考上下文中出现的信息回答问题，禁止使用任何外部知识。
如果参考上下文中没有足够信息回答问题，请直接说"抱歉，我没有找到相关信息"。

参考上下文:
{{.Context}}

用户问题: {{.Question}}

回答：`

// formatContext 格式化上下文内容
func formatContext(contexts []string) string {
	var formattedContext strings.Builder
	for i, ctx := range contexts {
		formattedContext.WriteString(fmt.Sprintf("【%d】%s\n\n", i+1, ctx))
	}
	return formattedContext.String()
}

// RAGConfig 检索增强生成配置
type RAGConfig struct {
	// 提示词模板
	Template string
	// 最大Token数
	MaxTokens int
	// 温度参数
	Temperature float32
	// 超时时间
	Timeout time.Duration
	// 是否带上引用来源
	IncludeSources bool
}

// DefaultRAGConfig 默认RAG配置
func DefaultRAGConfig() *RAGConfig {
	return &RAGConfig{
		Template:       DefaultRAGTemplate,
		MaxTokens:      2048,
		Temperature:    0.7,
		Timeout:        60 * time.Second,
		IncludeSources: true,
	}
}

// RAGService 实现检索增强生成服务
type RAGService struct {
	Client Client       // 大模型客户端
	config *RAGConfig   // 配置
	mu     sync.RWMutex // 配置互斥锁
}

// NewRAG 创建新的检索增强生成服务
func NewRAG(client Client, opts ...RAGOption) *RAGService {
	cfg := DefaultRAGConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &RAGService{
		Client: client,
		config: cfg,
	}
}

// RAGOption RAG配置选项函数类型
type RAGOption func(*RAGConfig)

// WithTemplate 设置提示词模板
func WithTemplate(template string) RAGOption {
	return func(c *RAGConfig) {
		c.Template = template
	}
}

// WithStrictMode 启用严格模式模板
func WithStrictMode() RAGOption {
	return func(c *RAGConfig) {
		c.Template = StrictRAGTemplate
	}
}

// WithRAGMaxTokens 设置最大Token数
func WithRAGMaxTokens(tokens int) RAGOption {
	return func(c *RAGConfig) {
		c.MaxTokens = tokens
	}
}

// WithRAGTemperature 设置温度参数
func WithRAGTemperature(temp float32) RAGOption {
	return func(c *RAGConfig) {
		c.Temperature = temp
	}
}

// WithRAGTimeout 设置请求超时时间
func WithRAGTimeout(timeout time.Duration) RAGOption {
	return func(c *RAGConfig) {
		c.Timeout = timeout
	}
}

// WithSources 设置是否包含引用来源
func WithSources(include bool) RAGOption {
	return func(c *RAGConfig) {
		c.IncludeSources = include
	}
}

// RAGResponse RAG响应结构
type RAGResponse struct {
	Answer  string            // 回答内容
	Sources []SourceReference // 引用来源
}

// SourceReference 引用来源
type SourceReference struct {
	ID       string            // 来源编号
	Source   string            // 来源标识（文件路径或URL）
	Content  string            // 引用内容
	Metadata map[string]string // 元数据
}

// Answer 根据上下文和问题生成回答
// 上下文为空时直接返回固定回答，不调用大模型
func (r *RAGService) Answer(ctx context.Context, question string, contexts []string) (*RAGResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, NewLLMError(ErrCodeEmptyPrompt, "question cannot be empty")
	}

	if len(contexts) == 0 {
		return &RAGResponse{Answer: FallbackAnswer}, nil
	}

	r.mu.RLock()
	cfg := r.config
	r.mu.RUnlock()

	// 创建带超时的上下文
	ctxWithTimeout, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	// 构建提示词
	prompt := r.buildPrompt(question, contexts)

	// 调用大模型生成回答
	response, err := r.Client.Generate(
		ctxWithTimeout,
		prompt,
		WithGenerateMaxTokens(cfg.MaxTokens),
		WithGenerateTemperature(cfg.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %v", err)
	}

	ragResponse := &RAGResponse{
		Answer: response.Text,
	}

	// 如果需要包含引用来源，添加到响应中
	if cfg.IncludeSources {
		sources := make([]SourceReference, len(contexts))
		for i, ctx := range contexts {
			sources[i] = SourceReference{
				ID:      fmt.Sprintf("src-%d", i+1),
				Content: ctx,
			}
		}
		ragResponse.Sources = sources
	}

	return ragResponse, nil
}

// buildPrompt 构建增强提示词
func (r *RAGService) buildPrompt(question string, contexts []string) string {
	r.mu.RLock()
	template := r.config.Template
	r.mu.RUnlock()

	formattedContext := formatContext(contexts)

	// 简单的模板替换
	prompt := template
	prompt = strings.ReplaceAll(prompt, "{{.Question}}", question)
	prompt = strings.ReplaceAll(prompt, "{{.Context}}", formattedContext)

	return prompt
}

// SetTemplate 设置自定义提示词模板
func (r *RAGService) SetTemplate(template string) *RAGService {
	r.mu.Lock()
	r.config.Template = template
	r.mu.Unlock()
	return r
}
