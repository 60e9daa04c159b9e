package pdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTempPDF 用gofpdf生成测试PDF
func createTempPDF(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.MultiCell(0, 10, text, "", "", false)
	require.NoError(t, doc.OutputFileAndClose(path))

	return path
}

// TestExtractFile 测试本地PDF文本提取
func TestExtractFile(t *testing.T) {
	path := createTempPDF(t, "Retrieval augmented generation combines search with language models.")

	e := New()
	text, err := e.ExtractFile(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Retrieval")
	assert.Contains(t, text, "language")
}

// TestExtractFileNotFound 测试文件不存在
func TestExtractFileNotFound(t *testing.T) {
	e := New()

	_, err := e.ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	var pErr PDFError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, ErrCodeNotFound, pErr.Code)
}

// TestExtractFileInvalidPDF 测试非PDF内容
func TestExtractFileInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	e := New()
	_, err := e.ExtractFile(path)
	require.Error(t, err)

	var pErr PDFError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, ErrCodeExtraction, pErr.Code)
}

// TestExtractURL 测试远程PDF下载并提取
func TestExtractURL(t *testing.T) {
	path := createTempPDF(t, "Downloaded document content for the pipeline.")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(data)
	}))
	defer server.Close()

	e := New()
	text, err := e.ExtractURL(context.Background(), server.URL+"/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Contains(t, text, "Downloaded")
}

// TestExtractURLUnavailable 测试远程PDF不可达
func TestExtractURLUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	e := New()
	_, err := e.ExtractURL(context.Background(), server.URL+"/doc.pdf")
	require.Error(t, err)

	var pErr PDFError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, ErrCodeNotFound, pErr.Code)
}

// TestExtractDispatch 测试来源分发
func TestExtractDispatch(t *testing.T) {
	path := createTempPDF(t, "Local dispatch test content.")

	e := New()
	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "dispatch"))
}
