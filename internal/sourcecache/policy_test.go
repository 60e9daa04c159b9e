package sourcecache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDigestDeterministic 测试摘要的确定性
func TestDigestDeterministic(t *testing.T) {
	d1 := Digest("https://example.com/docs")
	d2 := Digest("https://example.com/docs")
	d3 := Digest("https://example.com/other")

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	assert.Len(t, d1, DigestLength)

	// 摘要是sha256十六进制的前缀
	sum := sha256.Sum256([]byte("https://example.com/docs"))
	assert.Equal(t, hex.EncodeToString(sum[:])[:DigestLength], d1)
}

// TestResolve 测试条目解析
func TestResolve(t *testing.T) {
	base := t.TempDir()
	p := NewDirPolicy(base)

	entry := p.Resolve("/data/project")
	assert.Equal(t, "/data/project", entry.Identifier)
	assert.Equal(t, Digest("/data/project"), entry.Digest)
	assert.Equal(t, filepath.Join(base, entry.Digest), entry.Path)
}

// TestExists 测试缓存命中判定
func TestExists(t *testing.T) {
	base := t.TempDir()
	p := NewDirPolicy(base)
	entry := p.Resolve("some-source")

	// 目录不存在时未命中
	assert.False(t, p.Exists(entry))

	// 空目录视为未命中
	require.NoError(t, p.Prepare(entry))
	assert.False(t, p.Exists(entry))

	// 目录非空时命中
	require.NoError(t, os.WriteFile(filepath.Join(entry.Path, "index.faiss"), []byte("data"), 0644))
	assert.True(t, p.Exists(entry))
}

// TestExistsFileNotDir 测试同名文件不视为缓存命中
func TestExistsFileNotDir(t *testing.T) {
	base := t.TempDir()
	p := NewDirPolicy(base)
	entry := p.Resolve("file-source")

	require.NoError(t, os.WriteFile(entry.Path, []byte("not a dir"), 0644))
	assert.False(t, p.Exists(entry))
}
