package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/doc-RAG-pipeline/api/handler"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/llm"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/scraper"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/services"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/sourcecache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIngestor 测试用向量化器
type stubIngestor struct {
	entry   sourcecache.Entry
	results []document.Document
}

func (s *stubIngestor) markPersisted() error {
	return os.WriteFile(filepath.Join(s.entry.Path, "index.faiss"), []byte("x"), 0644)
}

func (s *stubIngestor) AddText(_ context.Context, _ string, _ document.Metadata) ([]string, error) {
	if err := s.markPersisted(); err != nil {
		return nil, err
	}
	return []string{"id-1"}, nil
}

func (s *stubIngestor) AddTexts(_ context.Context, texts []string, _ []document.Metadata) ([]string, error) {
	if err := s.markPersisted(); err != nil {
		return nil, err
	}
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	return ids, nil
}

func (s *stubIngestor) SimilaritySearch(_ context.Context, _ string, _ int) ([]document.Document, error) {
	return s.results, nil
}

// stubFetcher 测试用网页抓取器
type stubFetcher struct {
	calls int
}

func (s *stubFetcher) Scrape(_ context.Context, rawURL string) (*scraper.Result, error) {
	s.calls++
	return &scraper.Result{URL: rawURL, Title: "页面", Text: "页面正文内容"}, nil
}

// stubLLM 测试用大模型客户端
type stubLLM struct {
	reply string
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Generate(_ context.Context, _ string, _ ...llm.GenerateOption) (*llm.Response, error) {
	return &llm.Response{Text: s.reply}, nil
}

func (s *stubLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.GenerateOption) (*llm.Response, error) {
	return &llm.Response{Text: s.reply}, nil
}

// setupTestRouter 构建测试用的API路由
func setupTestRouter(t *testing.T, ingestor *stubIngestor, fetcher *stubFetcher, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := sourcecache.NewDirPolicy(t.TempDir())
	factory := func(entry sourcecache.Entry) (services.Ingestor, error) {
		ingestor.entry = entry
		return ingestor, nil
	}

	svc, err := services.NewContextService(policy, factory, llm.NewRAG(client),
		services.WithPageFetcher(fetcher))
	require.NoError(t, err)

	return SetupRouter(handler.NewContextHandler(svc), handler.NewAskHandler(svc))
}

// postJSON 发送JSON请求并返回响应
func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthCheck 测试健康检查接口
func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, &stubIngestor{}, &stubFetcher{}, &stubLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

// TestIngestWebEndpoint 测试网页摄取接口
func TestIngestWebEndpoint(t *testing.T) {
	fetcher := &stubFetcher{}
	router := setupTestRouter(t, &stubIngestor{}, fetcher, &stubLLM{})

	w := postJSON(router, "/api/contexts/web", map[string]interface{}{
		"url": "https://example.com/docs",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Digest     string `json:"digest"`
			Cached     bool   `json:"cached"`
			ChunkCount int    `json:"chunk_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Code)
	assert.NotEmpty(t, resp.Data.Digest)
	assert.False(t, resp.Data.Cached)
	assert.Equal(t, 1, resp.Data.ChunkCount)
	assert.Equal(t, 1, fetcher.calls)

	// 第二次请求命中缓存
	w = postJSON(router, "/api/contexts/web", map[string]interface{}{
		"url": "https://example.com/docs",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Cached)
	assert.Equal(t, 1, fetcher.calls)
}

// TestIngestWebMissingURL 测试缺少URL参数
func TestIngestWebMissingURL(t *testing.T) {
	router := setupTestRouter(t, &stubIngestor{}, &stubFetcher{}, &stubLLM{})

	w := postJSON(router, "/api/contexts/web", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAskEndpoint 测试问答接口
func TestAskEndpoint(t *testing.T) {
	ingestor := &stubIngestor{
		results: []document.Document{
			{Content: "相关内容", Metadata: document.Metadata{Source: "a.txt"}},
		},
	}
	router := setupTestRouter(t, ingestor, &stubFetcher{}, &stubLLM{reply: "生成的回答"})

	w := postJSON(router, "/api/ask", map[string]interface{}{
		"identifier": "https://example.com/docs",
		"question":   "问题？",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Answer  string `json:"answer"`
			FromLLM bool   `json:"from_llm"`
			Sources []struct {
				Source string `json:"source"`
			} `json:"sources"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "生成的回答", resp.Data.Answer)
	assert.True(t, resp.Data.FromLLM)
	require.Len(t, resp.Data.Sources, 1)
	assert.Equal(t, "a.txt", resp.Data.Sources[0].Source)
}

// TestAskFallbackEndpoint 测试检索为空时的固定回答
func TestAskFallbackEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubIngestor{}, &stubFetcher{}, &stubLLM{reply: "不该出现"})

	w := postJSON(router, "/api/ask", map[string]interface{}{
		"identifier": "unknown-source",
		"question":   "问题？",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Answer  string `json:"answer"`
			FromLLM bool   `json:"from_llm"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, llm.FallbackAnswer, resp.Data.Answer)
	assert.False(t, resp.Data.FromLLM)
}
