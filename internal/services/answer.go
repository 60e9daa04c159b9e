package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/cache"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/llm"
	"github.com/sirupsen/logrus"
)

// Answer 问答结果
type Answer struct {
	Text     string              // 回答内容
	Sources  []document.Document // 引用的分块
	FromLLM  bool                // 是否由大模型生成
	CacheHit bool                // 是否命中问答缓存
}

// Ask 基于指定上下文回答问题
// identifier是构建上下文时使用的来源标识（目录、URL等）；
// 检索不到任何分块时返回固定回答且不调用大模型
func (s *ContextService) Ask(ctx context.Context, identifier string, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}

	entry := s.policy.Resolve(identifier)

	// 先查问答缓存
	cacheKey := cache.AnswerKey(entry.Digest, question)
	if s.answerCache != nil {
		if cached, found, err := s.answerCache.Get(cacheKey); err == nil && found {
			s.logger.WithField("digest", entry.Digest).Debug("answer cache hit")
			return &Answer{Text: cached, CacheHit: true}, nil
		}
	}

	ingestor, err := s.factory(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to open context %s: %w", entry.Digest, err)
	}

	chunks, err := ingestor.SimilaritySearch(ctx, question, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	// 没有检索到任何上下文时返回固定回答，不调用大模型；
	// 固定回答不写入缓存，重建上下文后同一问题能立即拿到新结果
	if len(chunks) == 0 {
		s.logger.WithFields(logrus.Fields{
			"digest":   entry.Digest,
			"question": question,
		}).Info("no relevant chunks found, returning fallback answer")
		return &Answer{Text: llm.FallbackAnswer}, nil
	}

	contexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		contexts[i] = chunk.Content
	}

	resp, err := s.rag.Answer(ctx, question, contexts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if s.answerCache != nil {
		if err := s.answerCache.Set(cacheKey, resp.Answer, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("failed to cache answer")
		}
	}

	return &Answer{
		Text:    resp.Answer,
		Sources: chunks,
		FromLLM: true,
	}, nil
}
