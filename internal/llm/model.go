package llm

import "time"

// MessageRole 消息角色类型
type MessageRole string

const (
	// RoleSystem 系统角色
	RoleSystem MessageRole = "system"
	// RoleUser 用户角色
	RoleUser MessageRole = "user"
	// RoleAssistant 助手角色
	RoleAssistant MessageRole = "assistant"
)

// Message 对话消息结构
type Message struct {
	Role    MessageRole `json:"role"`    // 角色
	Content string      `json:"content"` // 内容
}

// ollamaGenerateRequest Ollama文本生成请求结构
type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`             // 模型名称
	Prompt  string                 `json:"prompt"`            // 提示词
	Stream  bool                   `json:"stream"`            // 是否流式输出
	Options map[string]interface{} `json:"options,omitempty"` // 采样参数
}

// ollamaGenerateResponse Ollama文本生成响应结构
type ollamaGenerateResponse struct {
	Model     string `json:"model"`      // 模型名称
	Response  string `json:"response"`   // 生成的文本
	Done      bool   `json:"done"`       // 是否完成
	EvalCount int    `json:"eval_count"` // 生成token数
	Error     string `json:"error"`      // 错误消息(如果有)
}

// ollamaChatRequest Ollama对话请求结构
type ollamaChatRequest struct {
	Model    string                 `json:"model"`             // 模型名称
	Messages []Message              `json:"messages"`          // 消息列表
	Stream   bool                   `json:"stream"`            // 是否流式输出
	Options  map[string]interface{} `json:"options,omitempty"` // 采样参数
}

// ollamaChatResponse Ollama对话响应结构
type ollamaChatResponse struct {
	Model     string  `json:"model"`      // 模型名称
	Message   Message `json:"message"`    // 回复消息
	Done      bool    `json:"done"`       // 是否完成
	EvalCount int     `json:"eval_count"` // 生成token数
	Error     string  `json:"error"`      // 错误消息(如果有)
}

// Response 统一的响应结构
type Response struct {
	Text       string    // 生成的文本
	TokenCount int       // 使用的token数
	ModelName  string    // 使用的模型名称
	FinishTime time.Time // 完成时间
}

// GenerateOption 生成请求的选项函数类型
type GenerateOption func(*GenerateOptions)

// GenerateOptions 生成请求的选项集合
type GenerateOptions struct {
	MaxTokens   *int     // 最大生成Token数
	Temperature *float32 // 采样温度
	TopP        *float32 // 核采样概率阈值
}

// WithGenerateMaxTokens 设置本次请求的最大生成Token数
func WithGenerateMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = &tokens
	}
}

// WithGenerateTemperature 设置本次请求的采样温度
func WithGenerateTemperature(temp float32) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = &temp
	}
}

// WithGenerateTopP 设置本次请求的核采样概率阈值
func WithGenerateTopP(topP float32) GenerateOption {
	return func(o *GenerateOptions) {
		o.TopP = &topP
	}
}

// Model 常用模型名称
const (
	ModelLlama3   = "llama3"      // Meta Llama3模型
	ModelQwen2    = "qwen2"       // 通义千问2开源模型
	ModelGemma2   = "gemma2"      // Google Gemma2模型
	ModelMistral  = "mistral"     // Mistral模型
	ModelDeepseek = "deepseek-r1" // DeepSeek推理模型
)
