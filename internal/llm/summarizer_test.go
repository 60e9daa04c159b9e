package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummarize 测试文档摘要生成
func TestSummarize(t *testing.T) {
	client := &countingClient{reply: "  这是一份关于天空颜色的文档。  "}
	summarizer := NewSummarizer(client)

	summary, err := summarizer.Summarize(context.Background(), "天空在晴天时呈现蓝色，这是大气散射造成的。")
	require.NoError(t, err)

	assert.Equal(t, "这是一份关于天空颜色的文档。", summary, "摘要应该去除首尾空白")
	assert.Equal(t, 1, client.generateCalls)
	assert.Contains(t, client.lastPrompt, "天空在晴天时呈现蓝色")
}

// TestSummarizeTruncatesInput 测试超长文档按字符数截断
func TestSummarizeTruncatesInput(t *testing.T) {
	client := &countingClient{reply: "摘要"}
	summarizer := NewSummarizer(client, WithSummaryContextSize(10))

	text := strings.Repeat("汉", 20)
	_, err := summarizer.Summarize(context.Background(), text)
	require.NoError(t, err)

	assert.Contains(t, client.lastPrompt, strings.Repeat("汉", 10))
	assert.NotContains(t, client.lastPrompt, strings.Repeat("汉", 11), "提示词不应该包含截断范围之外的内容")
}

// TestSummarizeEmptyText 测试空文档返回错误
func TestSummarizeEmptyText(t *testing.T) {
	summarizer := NewSummarizer(&countingClient{})

	_, err := summarizer.Summarize(context.Background(), "   \n ")
	require.Error(t, err)

	llmErr, ok := err.(LLMError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeEmptyPrompt, llmErr.Code)
}

// TestSummarizeCustomTemplate 测试自定义摘要模板
func TestSummarizeCustomTemplate(t *testing.T) {
	client := &countingClient{reply: "summary"}
	summarizer := NewSummarizer(client, WithSummaryTemplate("TL;DR: {{.Text}}"))

	_, err := summarizer.Summarize(context.Background(), "document body")
	require.NoError(t, err)

	assert.Equal(t, "TL;DR: document body", client.lastPrompt)
}
