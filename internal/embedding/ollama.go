package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func init() {
	RegisterClient("ollama", NewOllamaClient)
}

// ollamaEmbedRequest Ollama嵌入API请求结构体
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaEmbedResponse Ollama嵌入API响应结构体
type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// OllamaClient 实现Ollama嵌入API客户端
type OllamaClient struct {
	baseURL    string       // 服务基础URL
	model      string       // 模型名称
	httpClient *http.Client // HTTP客户端
	dimensions int          // 向量维度
}

// NewOllamaClient 创建新的Ollama嵌入客户端
func NewOllamaClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	if cfg.Model == "" {
		return nil, NewEmbeddingError(ErrCodeInvalidRequest, "embedding model name is required")
	}

	return &OllamaClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		dimensions: cfg.Dimensions,
	}, nil
}

// Name 返回模型名称
func (c *OllamaClient) Name() string {
	return c.model
}

// Dimensions 返回向量维度
func (c *OllamaClient) Dimensions() int {
	return c.dimensions
}

// Embed 生成单条文本的向量表示
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, NewEmbeddingError(ErrCodeEmptyInput, ErrMsgEmptyInput)
	}

	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, NewEmbeddingError(ErrCodeServerError, "no embedding vectors returned")
	}
	return vectors[0], nil
}

// EmbedBatch 批量生成文本的向量表示
// 结果顺序与输入一致
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	reqBody := ollamaEmbedRequest{
		Model: c.model,
		Input: texts,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidRequest, fmt.Sprintf("failed to marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidRequest, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewEmbeddingError(ErrCodeTimeout, ErrMsgTimeout)
		}
		return nil, NewEmbeddingError(ErrCodeNetworkError, fmt.Sprintf("%s: %v", ErrMsgNetworkError, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeNetworkError, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewEmbeddingError(ErrCodeServerError,
			fmt.Sprintf("embedding request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var embedResp ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, NewEmbeddingError(ErrCodeServerError, fmt.Sprintf("failed to parse response: %v", err))
	}

	if embedResp.Error != "" {
		return nil, NewEmbeddingError(ErrCodeServerError, embedResp.Error)
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, NewEmbeddingError(ErrCodeServerError,
			fmt.Sprintf("embedding count mismatch: expected %d, got %d", len(texts), len(embedResp.Embeddings)))
	}

	return embedResp.Embeddings, nil
}
