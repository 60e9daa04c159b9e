package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer 创建模拟Ollama嵌入服务
func newTestServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// 为每条输入返回一个固定维度的向量
		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			embeddings[i] = []float32{float32(i), 0.5, 0.25}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Model:      req.Model,
			Embeddings: embeddings,
		})
	}))
}

// TestOllamaEmbedBatch 测试批量嵌入
func TestOllamaEmbedBatch(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client, err := NewOllamaClient(
		WithBaseURL(server.URL),
		WithModel("mxbai-embed-large"),
	)
	require.NoError(t, err)

	vectors, err := client.EmbedBatch(context.Background(), []string{"hello", "world", "test"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{0, 0.5, 0.25}, vectors[0])
	assert.Equal(t, []float32{2, 0.5, 0.25}, vectors[2])
}

// TestOllamaEmbedSingle 测试单条嵌入
func TestOllamaEmbedSingle(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client, err := NewOllamaClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	vector, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vector, 3)
}

// TestOllamaEmbedEmptyInput 测试空输入
func TestOllamaEmbedEmptyInput(t *testing.T) {
	client, err := NewOllamaClient()
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "")
	require.Error(t, err)

	var embErr EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, ErrCodeEmptyInput, embErr.Code)

	// 空批量直接返回空结果，不触发请求
	vectors, err := client.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

// TestOllamaEmbedServerError 测试服务端错误
func TestOllamaEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	client, err := NewOllamaClient(WithBaseURL(server.URL), WithTimeout(time.Second*5))
	require.NoError(t, err)

	_, err = client.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)

	var embErr EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, ErrCodeServerError, embErr.Code)
}

// TestClientRegistry 测试客户端工厂注册
func TestClientRegistry(t *testing.T) {
	client, err := NewClient("ollama", WithModel("test-model"))
	require.NoError(t, err)
	assert.Equal(t, "test-model", client.Name())

	_, err = NewClient("nonexistent")
	require.Error(t, err)
}
