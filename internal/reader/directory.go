package reader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
)

// DefaultMaxFileSize 默认单文件大小上限
const DefaultMaxFileSize = 2 * 1024 * 1024 // 2MB

// DefaultMaxDepth 默认目录递归深度上限
const DefaultMaxDepth = 16

// defaultExtensions 默认允许读取的文件扩展名
var defaultExtensions = []string{
	".txt", ".md", ".markdown",
	".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".rs",
	".sh", ".sql",
	".yaml", ".yml", ".json", ".toml",
	".html", ".css",
}

// defaultIgnorePatterns 默认忽略的路径模式
var defaultIgnorePatterns = []string{
	".git/**", ".git",
	"node_modules/**", "node_modules",
	"vendor/**", "vendor",
	"**/*.min.js",
	".idea/**", ".vscode/**",
}

// FileContent 读取到的单个文件内容
type FileContent struct {
	Path    string // 相对于根目录的路径
	AbsPath string // 绝对路径
	Content string // 文本内容
	Size    int64  // 原始文件大小
}

// DirectoryReader 递归读取目录下文本文件的读取器
type DirectoryReader struct {
	extensions     map[string]bool // 扩展名允许列表（小写）
	ignorePatterns []glob.Glob     // 忽略的路径模式
	maxFileSize    int64           // 单文件大小上限
	maxDepth       int             // 递归深度上限
	renderMarkdown bool            // 是否将Markdown规整为纯文本
	logger         *logrus.Logger  // 日志记录器
}

// DirectoryOption 目录读取器配置选项
type DirectoryOption func(*DirectoryReader)

// WithExtensions 设置允许读取的文件扩展名
func WithExtensions(extensions []string) DirectoryOption {
	return func(r *DirectoryReader) {
		if len(extensions) == 0 {
			return
		}
		r.extensions = make(map[string]bool, len(extensions))
		for _, ext := range extensions {
			r.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithIgnorePatterns 追加忽略的路径模式（glob语法）
// 无法编译的模式会被跳过
func WithIgnorePatterns(patterns []string) DirectoryOption {
	return func(r *DirectoryReader) {
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				r.logger.WithField("pattern", pattern).Warn("invalid ignore pattern, skipping")
				continue
			}
			r.ignorePatterns = append(r.ignorePatterns, g)
		}
	}
}

// WithMaxFileSize 设置单文件大小上限
func WithMaxFileSize(size int64) DirectoryOption {
	return func(r *DirectoryReader) {
		if size > 0 {
			r.maxFileSize = size
		}
	}
}

// WithMaxDepth 设置目录递归深度上限
func WithMaxDepth(depth int) DirectoryOption {
	return func(r *DirectoryReader) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithMarkdownRendering 设置是否将Markdown规整为纯文本
func WithMarkdownRendering(enabled bool) DirectoryOption {
	return func(r *DirectoryReader) {
		r.renderMarkdown = enabled
	}
}

// WithReaderLogger 设置日志记录器
func WithReaderLogger(logger *logrus.Logger) DirectoryOption {
	return func(r *DirectoryReader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewDirectoryReader 创建新的目录读取器
func NewDirectoryReader(opts ...DirectoryOption) *DirectoryReader {
	r := &DirectoryReader{
		extensions:     make(map[string]bool, len(defaultExtensions)),
		maxFileSize:    DefaultMaxFileSize,
		maxDepth:       DefaultMaxDepth,
		renderMarkdown: true,
		logger:         logrus.New(),
	}
	for _, ext := range defaultExtensions {
		r.extensions[ext] = true
	}

	for _, pattern := range defaultIgnorePatterns {
		if g, err := glob.Compile(pattern, '/'); err == nil {
			r.ignorePatterns = append(r.ignorePatterns, g)
		}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collect 递归读取根目录下所有允许的文本文件
// 结果按相对路径升序排列；遍历在每个条目之间检查上下文取消
func (r *DirectoryReader) Collect(ctx context.Context, root string) ([]FileContent, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, WrapReaderError(ErrCodeInvalidPath, fmt.Sprintf("failed to resolve path %s", root), err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, WrapReaderError(ErrCodeInvalidPath, fmt.Sprintf("cannot access %s", absRoot), err)
	}
	if !info.IsDir() {
		return nil, NewReaderError(ErrCodeInvalidPath, fmt.Sprintf("%s is not a directory", absRoot))
	}

	var files []FileContent

	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			r.logger.WithField("path", path).WithError(walkErr).Warn("skipping unreadable entry")
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if r.depth(rel) >= r.maxDepth {
				return filepath.SkipDir
			}
			if r.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if r.ignored(rel) {
			return nil
		}
		if !r.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		fileInfo, err := entry.Info()
		if err != nil {
			r.logger.WithField("path", rel).WithError(err).Warn("failed to stat file, skipping")
			return nil
		}
		if fileInfo.Size() > r.maxFileSize {
			r.logger.WithFields(logrus.Fields{
				"path": rel,
				"size": fileInfo.Size(),
			}).Debug("file exceeds size limit, skipping")
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return WrapReaderError(ErrCodeUnreadable, fmt.Sprintf("failed to read %s", rel), err)
		}

		text := string(content)
		if r.renderMarkdown && isMarkdownFile(path) {
			text = document.MarkdownToText(text)
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}

		files = append(files, FileContent{
			Path:    rel,
			AbsPath: path,
			Content: text,
			Size:    fileInfo.Size(),
		})
		return nil
	})
	if err != nil {
		var rErr ReaderError
		if errors.As(err, &rErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, WrapReaderError(ErrCodeInvalidPath, fmt.Sprintf("failed to walk %s", absRoot), err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	r.logger.WithFields(logrus.Fields{
		"root":  absRoot,
		"files": len(files),
	}).Info("directory collected")

	return files, nil
}

// CollectText 读取目录并返回路径到内容的映射
func (r *DirectoryReader) CollectText(ctx context.Context, root string) (map[string]string, error) {
	files, err := r.Collect(ctx, root)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(files))
	for _, f := range files {
		result[f.Path] = f.Content
	}
	return result, nil
}

// CombinedText 读取目录并将全部内容拼接为单个文本
// 每个文件前带路径标题行，文件间以空行分隔
func (r *DirectoryReader) CombinedText(ctx context.Context, root string) (string, error) {
	files, err := r.Collect(ctx, root)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", NewReaderError(ErrCodeEmptyContent, fmt.Sprintf("no readable files found under %s", root))
	}

	var builder strings.Builder
	for _, f := range files {
		builder.WriteString(fmt.Sprintf("## %s\n\n", f.Path))
		builder.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// ignored 判断相对路径是否匹配忽略模式
func (r *DirectoryReader) ignored(rel string) bool {
	for _, g := range r.ignorePatterns {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// depth 计算相对路径的目录深度
func (r *DirectoryReader) depth(rel string) int {
	return strings.Count(rel, "/") + 1
}

// isMarkdownFile 判断是否为Markdown文件
func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
