package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

func init() {
	RegisterClient("ollama", NewOllamaClient)
}

// OllamaClient Ollama本地大模型客户端实现
type OllamaClient struct {
	baseURL     string       // API端点
	model       string       // 模型名称
	httpClient  *http.Client // HTTP客户端
	maxTokens   int          // 最大生成Token数
	temperature float32      // 温度参数
	topP        float32      // topP参数
}

// NewOllamaClient 创建新的Ollama大模型客户端
func NewOllamaClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	if cfg.Model == "" {
		return nil, NewLLMError(ErrCodeInvalidRequest, "model name cannot be empty")
	}

	return &OllamaClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}, nil
}

// Name 返回模型名称
func (c *OllamaClient) Name() string {
	return c.model
}

// Generate 根据提示词生成回答
func (c *OllamaClient) Generate(ctx context.Context, prompt string, options ...GenerateOption) (*Response, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewLLMError(ErrCodeEmptyPrompt, ErrMsgEmptyPrompt)
	}

	reqBody := ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: c.buildOptions(options),
	}

	var respBody ollamaGenerateResponse
	if err := c.post(ctx, "/api/generate", reqBody, &respBody); err != nil {
		return nil, err
	}
	if respBody.Error != "" {
		return nil, c.serverError(respBody.Error)
	}

	return &Response{
		Text:       respBody.Response,
		TokenCount: respBody.EvalCount,
		ModelName:  respBody.Model,
		FinishTime: time.Now(),
	}, nil
}

// Chat 进行多轮对话
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, options ...GenerateOption) (*Response, error) {
	if len(messages) == 0 {
		return nil, NewLLMError(ErrCodeEmptyPrompt, "messages cannot be empty")
	}

	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  c.buildOptions(options),
	}

	var respBody ollamaChatResponse
	if err := c.post(ctx, "/api/chat", reqBody, &respBody); err != nil {
		return nil, err
	}
	if respBody.Error != "" {
		return nil, c.serverError(respBody.Error)
	}

	return &Response{
		Text:       respBody.Message.Content,
		TokenCount: respBody.EvalCount,
		ModelName:  respBody.Model,
		FinishTime: time.Now(),
	}, nil
}

// buildOptions 合并客户端默认参数与单次请求参数
func (c *OllamaClient) buildOptions(options []GenerateOption) map[string]interface{} {
	opts := &GenerateOptions{}
	for _, opt := range options {
		opt(opts)
	}

	result := map[string]interface{}{
		"num_predict": c.maxTokens,
		"temperature": c.temperature,
		"top_p":       c.topP,
	}
	if opts.MaxTokens != nil {
		result["num_predict"] = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		result["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		result["top_p"] = *opts.TopP
	}
	return result
}

// post 发送JSON请求并解析响应
func (c *OllamaClient) post(ctx context.Context, path string, reqBody interface{}, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return NewLLMError(ErrCodeInvalidRequest, fmt.Sprintf("failed to marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return NewLLMError(ErrCodeInvalidRequest, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewLLMError(ErrCodeTimeout, ErrMsgTimeout)
		}
		return NewLLMError(ErrCodeNetworkError, fmt.Sprintf("%s: %v", ErrMsgNetworkError, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewLLMError(ErrCodeNetworkError, fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return NewLLMError(ErrCodeModelNotFound,
				fmt.Sprintf("%s: %s", ErrMsgModelNotFound, string(body)))
		}
		return NewLLMError(ErrCodeServerError,
			fmt.Sprintf("%s: status %d: %s", ErrMsgServerError, resp.StatusCode, string(body)))
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return NewLLMError(ErrCodeServerError, fmt.Sprintf("failed to parse response: %v", err))
	}
	return nil
}

// serverError 将服务端错误消息映射为LLM错误
func (c *OllamaClient) serverError(message string) LLMError {
	if strings.Contains(message, "not found") {
		return NewLLMError(ErrCodeModelNotFound, message)
	}
	return NewLLMError(ErrCodeServerError, message)
}
