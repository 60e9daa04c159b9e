package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile 在测试目录下创建文件
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// TestCollectBasic 测试基本的目录收集
func TestCollectBasic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "readme.md", "# Title\n\nsome docs")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "sub/util.go", "package sub")
	writeFile(t, root, "image.png", "binarydata")

	r := NewDirectoryReader()
	files, err := r.Collect(context.Background(), root)
	require.NoError(t, err)

	// png不在扩展名允许列表中
	require.Len(t, files, 3)

	// 结果按相对路径升序
	assert.Equal(t, "main.go", files[0].Path)
	assert.Equal(t, "readme.md", files[1].Path)
	assert.Equal(t, "sub/util.go", files[2].Path)

	// Markdown被规整为纯文本
	assert.NotContains(t, files[1].Content, "# Title")
	assert.Contains(t, files[1].Content, "Title")
}

// TestCollectIgnorePatterns 测试忽略模式
func TestCollectIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "keep me")
	writeFile(t, root, ".git/config", "should be skipped")
	writeFile(t, root, "node_modules/pkg/index.js", "skip")
	writeFile(t, root, "secret/data.txt", "skip via custom pattern")

	r := NewDirectoryReader(WithIgnorePatterns([]string{"secret/**", "secret"}))
	files, err := r.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "keep.txt", files[0].Path)
}

// TestCollectExtensionFilter 测试自定义扩展名列表
func TestCollectExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "text")
	writeFile(t, root, "b.go", "package b")

	r := NewDirectoryReader(WithExtensions([]string{".txt"}))
	files, err := r.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Path)
}

// TestCollectMaxFileSize 测试文件大小上限
func TestCollectMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "ok")
	writeFile(t, root, "large.txt", string(make([]byte, 100))+"x")

	r := NewDirectoryReader(WithMaxFileSize(10))
	files, err := r.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "small.txt", files[0].Path)
}

// TestCollectEmptyFilesSkipped 测试空白文件被跳过
func TestCollectEmptyFilesSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blank.txt", "   \n\t  ")
	writeFile(t, root, "real.txt", "content")

	r := NewDirectoryReader()
	files, err := r.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "real.txt", files[0].Path)
}

// TestCollectInvalidPath 测试无效路径错误
func TestCollectInvalidPath(t *testing.T) {
	r := NewDirectoryReader()

	_, err := r.Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var rErr ReaderError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, ErrCodeInvalidPath, rErr.Code)
}

// TestCollectCancelled 测试上下文取消
func TestCollectCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewDirectoryReader()
	_, err := r.Collect(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestCollectText 测试路径到内容映射
func TestCollectText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, "b.txt", "beta")

	r := NewDirectoryReader()
	texts, err := r.CollectText(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"}, texts)
}

// TestCombinedText 测试拼接文本输出
func TestCombinedText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, "b.txt", "beta")

	r := NewDirectoryReader()
	combined, err := r.CombinedText(context.Background(), root)
	require.NoError(t, err)

	assert.Contains(t, combined, "## a.txt")
	assert.Contains(t, combined, "alpha")
	assert.Contains(t, combined, "## b.txt")
	assert.Contains(t, combined, "beta")
}

// TestCombinedTextEmpty 测试空目录返回EmptyContent错误
func TestCombinedTextEmpty(t *testing.T) {
	r := NewDirectoryReader()

	_, err := r.CombinedText(context.Background(), t.TempDir())
	require.Error(t, err)

	var rErr ReaderError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, ErrCodeEmptyContent, rErr.Code)
}
