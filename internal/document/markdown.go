package document

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownToText 将Markdown内容转换为纯文本
// 目录摄取时用于规范化.md文件，让分段器处理干净的文本
func MarkdownToText(content string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	doc := mdParser.Parse([]byte(content))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	return stripHTMLTags(string(htmlContent))
}

// 块级标签替换规则，保持段落结构供分段器使用
var blockReplacements = []struct {
	old string
	new string
}{
	{"<br>", "\n"},
	{"<br/>", "\n"},
	{"<br />", "\n"},
	{"</p>", "\n\n"},
	{"<li>", "- "},
	{"</li>", "\n"},
	{"</ul>", "\n"},
	{"</ol>", "\n"},
	{"</h1>", "\n\n"},
	{"</h2>", "\n\n"},
	{"</h3>", "\n\n"},
	{"</h4>", "\n\n"},
	{"</h5>", "\n\n"},
	{"</h6>", "\n\n"},
	{"</pre>", "\n\n"},
	{"</blockquote>", "\n\n"},
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags 去除HTML标签，保留段落换行
func stripHTMLTags(content string) string {
	for _, r := range blockReplacements {
		content = strings.ReplaceAll(content, r.old, r.new)
	}
	content = htmlTagPattern.ReplaceAllString(content, "")

	// 规范化多余空行
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(content)
}
