package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults 测试缺少配置文件时的默认值
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "faiss", cfg.VectorDB.Type)
	assert.Equal(t, "cosine", cfg.VectorDB.Distance)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "mxbai-embed-large", cfg.Embed.Model)
	assert.Equal(t, 500, cfg.Document.ChunkSize)
	assert.Equal(t, 200, cfg.Document.ChunkOverlap)
	assert.Equal(t, 5000, cfg.Vectorizer.BatchSize)
	assert.Equal(t, 5, cfg.Context.SearchLimit)
	assert.Equal(t, "./data/contexts", cfg.Context.BaseDir)
}

// TestLoadFromFile 测试从配置文件加载
func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9090
document:
  chunk_size: 800
  chunk_overlap: 100
context:
  base_dir: /tmp/contexts
cache:
  type: redis
  address: localhost:6379
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 800, cfg.Document.ChunkSize)
	assert.Equal(t, 100, cfg.Document.ChunkOverlap)
	assert.Equal(t, "/tmp/contexts", cfg.Context.BaseDir)
	assert.Equal(t, "redis", cfg.Cache.Type)

	// 未覆盖的项保持默认值
	assert.Equal(t, "ollama", cfg.LLM.Provider)
}

// TestLoadEnvOverride 测试环境变量覆盖
func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RAG_SERVER_PORT", "7070")
	t.Setenv("RAG_LLM_MODEL", "qwen2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "qwen2", cfg.LLM.Model)
}
