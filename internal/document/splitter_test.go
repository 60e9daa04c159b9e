package document

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplitShortText 测试不超过分块大小的文本
func TestSplitShortText(t *testing.T) {
	splitter := NewSplitter(DefaultSplitterConfig())

	t.Run("single chunk", func(t *testing.T) {
		text := "hello world, this is a short document"
		chunks := splitter.SplitText(text)
		require.Len(t, chunks, 1, "短文本应该只产生一个分块")
		assert.Equal(t, text, chunks[0])
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, splitter.SplitText(""))
		assert.Empty(t, splitter.SplitText("   \n\t  "))
	})
}

// TestSplitLongText 测试超过分块大小的文本
func TestSplitLongText(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Separators:   DefaultSeparators(),
	})

	text := strings.Repeat("The sky is blue. ", 50)
	chunks := splitter.SplitText(text)

	t.Logf("分块数量: %d", len(chunks))
	require.GreaterOrEqual(t, len(chunks), 2, "长文本应该产生多个分块")

	for i, chunk := range chunks {
		// 允许边界搜索带来的少量超出
		assert.LessOrEqual(t, len(chunk), 120, "分块 %d 超出预算: %d", i, len(chunk))
		assert.Contains(t, text, chunk, "分块 %d 应该是原文的子串", i)
	}

	// 相邻分块之间应有重叠内容
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-16:]
		assert.Contains(t, chunks[i], tail, "分块 %d 与前一个分块没有重叠", i)
	}
}

// TestSplitParagraphBoundary 测试段落边界优先
func TestSplitParagraphBoundary(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    50,
		ChunkOverlap: 10,
		Separators:   DefaultSeparators(),
	})

	text := "first paragraph content here.\n\nsecond paragraph content here.\n\nthird paragraph content here."
	chunks := splitter.SplitText(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	// 段落不应在中间被切开
	assert.Contains(t, chunks[0], "first paragraph")
	for _, chunk := range chunks {
		assert.Contains(t, text, chunk)
	}
}

// TestSplitNoSeparator 测试没有任何分隔符的文本
func TestSplitNoSeparator(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    500,
		ChunkOverlap: 200,
		Separators:   DefaultSeparators(),
	})

	text := strings.Repeat("a", 600)
	chunks := splitter.SplitText(text)

	require.GreaterOrEqual(t, len(chunks), 2, "超长文本即使没有分隔符也应该被切分")
	for _, chunk := range chunks {
		assert.Contains(t, text, chunk)
	}
}

// TestSplitMultibyteNoSeparator 测试无分隔符的多字节文本不被切坏
func TestSplitMultibyteNoSeparator(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Separators:   DefaultSeparators(),
	})

	text := strings.Repeat("汉", 200)
	chunks := splitter.SplitText(text)

	require.GreaterOrEqual(t, len(chunks), 2, "超长文本即使没有分隔符也应该被切分")
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "分块 %d 含有非法UTF-8内容: %q", i, chunk)
		assert.Contains(t, text, chunk, "分块 %d 应该是原文的子串", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100, "分块 %d 超出字符预算", i)
	}
}

// TestSplitByLengthKeepsAllContent 测试空白边界收缩不丢失内容
func TestSplitByLengthKeepsAllContent(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Separators:   DefaultSeparators(),
	})

	// 唯一字符构造的文本，制表符是窗口内唯一的空白边界
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteRune(rune('一' + i))
	}
	sb.WriteByte('\t')
	for i := 0; i < 150; i++ {
		sb.WriteRune(rune('一' + 100 + i))
	}
	text := sb.String()

	chunks := splitter.SplitText(text)
	require.NotEmpty(t, chunks)

	// 字符互不重复，可以用子串位置标记覆盖范围
	covered := make([]bool, len(text))
	for i, chunk := range chunks {
		idx := strings.Index(text, chunk)
		require.GreaterOrEqual(t, idx, 0, "分块 %d 不是原文的子串", i)
		for j := idx; j < idx+len(chunk); j++ {
			covered[j] = true
		}
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\t' {
			continue
		}
		assert.True(t, covered[i], "原文第 %d 字节的内容在切分后丢失", i)
	}
}

// TestSplitDeterministic 测试切分结果的确定性
func TestSplitDeterministic(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    80,
		ChunkOverlap: 16,
		Separators:   DefaultSeparators(),
	})

	text := strings.Repeat("Some sentence with several words in it. ", 20)
	first := splitter.SplitText(text)
	second := splitter.SplitText(text)

	assert.Equal(t, first, second, "同一输入的两次切分结果应该一致")
}

// TestSplitCopiesMetadata 测试元数据复制到每个分块
func TestSplitCopiesMetadata(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{
		ChunkSize:    100,
		ChunkOverlap: 20,
		Separators:   DefaultSeparators(),
	})

	doc := NewDocument(
		strings.Repeat("The sky is blue. ", 50),
		Metadata{Source: "a.txt"},
	)
	chunks := splitter.Split(doc)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.Equal(t, "a.txt", chunk.Metadata.Source)
	}
}

// TestSplitEmptyDocument 测试空白文档产生零个分块
func TestSplitEmptyDocument(t *testing.T) {
	splitter := NewSplitter(DefaultSplitterConfig())

	chunks := splitter.Split(NewDocument("  \n ", Metadata{Source: "empty.txt"}))
	assert.Empty(t, chunks)
}

// TestSplitterConfigDefaults 测试非法配置回退到默认值
func TestSplitterConfigDefaults(t *testing.T) {
	splitter := NewSplitter(SplitterConfig{ChunkSize: -1, ChunkOverlap: -5})
	cfg := splitter.Config()

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 0, cfg.ChunkOverlap)
	assert.NotEmpty(t, cfg.Separators)
}
