package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// DefaultDownloadTimeout 默认下载超时时间
const DefaultDownloadTimeout = 60 * time.Second

// Extractor PDF文本提取器
// 支持本地文件和通过URL下载的远程文件
type Extractor struct {
	httpClient *http.Client   // 下载用HTTP客户端
	logger     *logrus.Logger // 日志记录器
}

// Option 提取器配置选项
type Option func(*Extractor)

// WithDownloadTimeout 设置下载超时时间
func WithDownloadTimeout(timeout time.Duration) Option {
	return func(e *Extractor) {
		if timeout > 0 {
			e.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient 设置自定义HTTP客户端
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New 创建新的PDF提取器
func New(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: DefaultDownloadTimeout},
		logger:     logrus.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile 提取本地PDF文件的文本内容
// 各页文本按页码顺序以空行连接
func (e *Extractor) ExtractFile(filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", WrapPDFError(ErrCodeNotFound, fmt.Sprintf("cannot access %s", filePath), err)
	}

	// pdfcpu将每页文本导出为单独的txt文件
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return "", WrapPDFError(ErrCodeExtraction, "failed to create temp dir", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(filePath, tmpDir, nil, conf); err != nil {
		return "", WrapPDFError(ErrCodeExtraction,
			fmt.Sprintf("failed to extract text from %s", filePath), err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", WrapPDFError(ErrCodeExtraction, "failed to read extracted text dir", err)
	}

	// 按文件名排序保证页码顺序
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var allText strings.Builder
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			continue
		}
		if allText.Len() > 0 {
			allText.WriteString("\n\n")
		}
		allText.Write(data)
	}

	result := strings.TrimSpace(allText.String())
	if result == "" {
		return "", NewPDFError(ErrCodeEmptyContent,
			fmt.Sprintf("no text content found in %s", filePath))
	}

	e.logger.WithFields(logrus.Fields{
		"file":  filePath,
		"chars": len(result),
	}).Info("pdf text extracted")

	return result, nil
}

// ExtractURL 下载远程PDF并提取文本内容
func (e *Extractor) ExtractURL(ctx context.Context, rawURL string) (string, error) {
	localPath, cleanup, err := e.download(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return e.ExtractFile(localPath)
}

// Extract 提取本地路径或URL指向的PDF文本
// 以http/https开头的来源按URL处理，其余按本地路径处理
func (e *Extractor) Extract(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return e.ExtractURL(ctx, source)
	}
	return e.ExtractFile(source)
}

// download 下载PDF到临时文件，返回本地路径和清理函数
func (e *Extractor) download(ctx context.Context, rawURL string) (string, func(), error) {
	noop := func() {}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", noop, NewPDFError(ErrCodeNotFound, fmt.Sprintf("invalid pdf url %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", noop, WrapPDFError(ErrCodeNotFound, "failed to build request", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", noop, NewPDFError(ErrCodeTimeout, fmt.Sprintf("download timed out: %s", rawURL))
		}
		return "", noop, WrapPDFError(ErrCodeNotFound, fmt.Sprintf("failed to download %s", rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", noop, NewPDFError(ErrCodeNotFound,
			fmt.Sprintf("unexpected status %d downloading %s", resp.StatusCode, rawURL))
	}

	tmpFile, err := os.CreateTemp("", "pdf_download_*.pdf")
	if err != nil {
		return "", noop, WrapPDFError(ErrCodeExtraction, "failed to create temp file", err)
	}
	cleanup := func() { os.Remove(tmpFile.Name()) }

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		cleanup()
		return "", noop, WrapPDFError(ErrCodeExtraction, "failed to save downloaded pdf", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", noop, WrapPDFError(ErrCodeExtraction, "failed to close temp file", err)
	}

	e.logger.WithField("url", rawURL).Debug("pdf downloaded")
	return tmpFile.Name(), cleanup, nil
}
