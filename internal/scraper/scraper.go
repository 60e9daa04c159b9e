package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// DefaultUserAgent 默认请求User-Agent
const DefaultUserAgent = "doc-rag-pipeline/1.0 (+https://github.com/fyerfyer/doc-RAG-pipeline)"

// DefaultMinTextLength 文本块的最小长度
// 低于该长度的块视为导航或噪声，不纳入正文
const DefaultMinTextLength = 20

// skipTags 不参与正文提取的标签
var skipTags = []string{"script", "style", "noscript", "iframe", "head", "meta", "link", "nav", "footer"}

// blockSelector 参与正文提取的块级标签
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

// Result 网页抓取结果
type Result struct {
	URL      string            // 抓取的URL
	Title    string            // 页面标题
	Text     string            // 提取的正文文本
	Metadata map[string]string // 页面元数据（description等）
}

// Scraper 网页内容抓取器
type Scraper struct {
	httpClient    *http.Client   // HTTP客户端
	userAgent     string         // 请求User-Agent
	minTextLength int            // 文本块最小长度
	logger        *logrus.Logger // 日志记录器
}

// Option 抓取器配置选项
type Option func(*Scraper)

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scraper) {
		if timeout > 0 {
			s.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent 设置请求User-Agent
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMinTextLength 设置文本块最小长度
func WithMinTextLength(length int) Option {
	return func(s *Scraper) {
		if length >= 0 {
			s.minTextLength = length
		}
	}
}

// WithHTTPClient 设置自定义HTTP客户端
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New 创建新的网页抓取器
func New(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		userAgent:     DefaultUserAgent,
		minTextLength: DefaultMinTextLength,
		logger:        logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape 抓取网页并提取正文
// 只接受http/https协议的URL
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, NewScraperError(ErrCodeInvalidURL, fmt.Sprintf("invalid url %q", rawURL), rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, NewScraperError(ErrCodeInvalidURL,
			fmt.Sprintf("unsupported scheme %q, only http/https allowed", parsed.Scheme), rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewScraperError(ErrCodeInvalidURL, fmt.Sprintf("failed to build request: %v", err), rawURL)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewScraperError(ErrCodeTimeout, "request timed out", rawURL)
		}
		return nil, WrapScraperError(ErrCodeUnavailable, "failed to fetch page", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewScraperError(ErrCodeUnavailable,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, WrapScraperError(ErrCodeParseError, "failed to parse html", rawURL, err)
	}

	result := s.extract(doc, rawURL)
	if strings.TrimSpace(result.Text) == "" {
		return nil, NewScraperError(ErrCodeEmptyContent, "no extractable text found", rawURL)
	}

	s.logger.WithFields(logrus.Fields{
		"url":   rawURL,
		"title": result.Title,
		"chars": len(result.Text),
	}).Info("page scraped")

	return result, nil
}

// extract 从解析后的文档中提取标题、元数据和正文
func (s *Scraper) extract(doc *goquery.Document, rawURL string) *Result {
	result := &Result{
		URL:      rawURL,
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Metadata: make(map[string]string),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		result.Metadata["description"] = strings.TrimSpace(desc)
	}
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		result.Metadata["lang"] = lang
	}

	// 移除无关标签
	doc.Find(strings.Join(skipTags, ", ")).Remove()

	// 按块级标签提取正文，过滤过短的块
	var blocks []string
	seen := make(map[string]bool)
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// 嵌套块只取最内层，避免重复计入父级文本
		if sel.Children().Is(blockSelector) {
			return
		}
		text := normalizeWhitespace(sel.Text())
		if len([]rune(text)) < s.minTextLength {
			return
		}
		if seen[text] {
			return
		}
		seen[text] = true
		blocks = append(blocks, text)
	})

	if len(blocks) > 0 {
		result.Text = strings.Join(blocks, "\n\n")
		return result
	}

	// 没有符合条件的块时回退到整个body文本
	result.Text = normalizeWhitespace(doc.Find("body").Text())
	return result
}

// normalizeWhitespace 折叠连续空白为单个空格
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
