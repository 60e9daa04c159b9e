package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultSummaryTemplate 默认摘要提示词模板
// 包含变量：
// {{.Text}} - 待摘要的文档内容
const DefaultSummaryTemplate = `请用简洁的语言概括下面文档的主要内容，直接给出摘要，不要添加任何前缀说明。

文档内容:
{{.Text}}`

// SummarizerConfig 摘要生成配置
type SummarizerConfig struct {
	// 提示词模板
	Template string
	// 参与摘要的最大字符数，超出部分截断
	ContextSize int
	// 最大Token数
	MaxTokens int
	// 温度参数
	Temperature float32
	// 超时时间
	Timeout time.Duration
}

// DefaultSummarizerConfig 默认摘要配置
func DefaultSummarizerConfig() *SummarizerConfig {
	return &SummarizerConfig{
		Template:    DefaultSummaryTemplate,
		ContextSize: 1000,
		MaxTokens:   256,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	}
}

// SummarizerOption 摘要配置选项函数类型
type SummarizerOption func(*SummarizerConfig)

// WithSummaryTemplate 设置摘要提示词模板
func WithSummaryTemplate(template string) SummarizerOption {
	return func(c *SummarizerConfig) {
		c.Template = template
	}
}

// WithSummaryContextSize 设置参与摘要的最大字符数
func WithSummaryContextSize(size int) SummarizerOption {
	return func(c *SummarizerConfig) {
		if size > 0 {
			c.ContextSize = size
		}
	}
}

// WithSummaryMaxTokens 设置最大Token数
func WithSummaryMaxTokens(tokens int) SummarizerOption {
	return func(c *SummarizerConfig) {
		c.MaxTokens = tokens
	}
}

// WithSummaryTimeout 设置请求超时时间
func WithSummaryTimeout(timeout time.Duration) SummarizerOption {
	return func(c *SummarizerConfig) {
		c.Timeout = timeout
	}
}

// SummarizerService 文档摘要生成服务
type SummarizerService struct {
	Client Client            // 大模型客户端
	config *SummarizerConfig // 配置
}

// NewSummarizer 创建新的摘要生成服务
func NewSummarizer(client Client, opts ...SummarizerOption) *SummarizerService {
	cfg := DefaultSummarizerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &SummarizerService{
		Client: client,
		config: cfg,
	}
}

// Summarize 生成文档内容的摘要
// 只取文档开头ContextSize个字符参与摘要
func (s *SummarizerService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", NewLLMError(ErrCodeEmptyPrompt, "text cannot be empty")
	}

	runes := []rune(text)
	if len(runes) > s.config.ContextSize {
		runes = runes[:s.config.ContextSize]
	}
	prompt := strings.ReplaceAll(s.config.Template, "{{.Text}}", string(runes))

	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	response, err := s.Client.Generate(
		ctxWithTimeout,
		prompt,
		WithGenerateMaxTokens(s.config.MaxTokens),
		WithGenerateTemperature(s.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %v", err)
	}

	return strings.TrimSpace(response.Text), nil
}
