package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"github.com/sirupsen/logrus"
)

// WebContext 将网页构建为可检索的向量上下文
// 同一URL的上下文通过缓存摘要复用：已有缓存时不重新抓取页面，
// forceRescrape为true时忽略已有缓存重新抓取
func (s *ContextService) WebContext(ctx context.Context, rawURL string, forceRescrape bool) (*ContextResult, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("page fetcher is not configured")
	}
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}

	entry := s.policy.Resolve(rawURL)
	result := &ContextResult{Entry: entry}

	if !forceRescrape && s.policy.Exists(entry) {
		s.logger.WithFields(logrus.Fields{
			"url":    rawURL,
			"digest": entry.Digest,
		}).Info("web context cache hit, skipping scrape")
		result.Cached = true
		s.recordIngest(&models.IngestRecord{
			SourceType: models.SourceTypeWeb,
			Identifier: rawURL,
			Digest:     entry.Digest,
			Status:     models.IngestStatusCached,
		})
		return result, nil
	}

	page, err := s.fetcher.Scrape(ctx, rawURL)
	if err != nil {
		s.recordIngest(&models.IngestRecord{
			SourceType: models.SourceTypeWeb,
			Identifier: rawURL,
			Digest:     entry.Digest,
			Status:     models.IngestStatusFailed,
			Error:      err.Error(),
		})
		return nil, fmt.Errorf("failed to scrape %s: %w", rawURL, err)
	}

	if err := s.policy.Prepare(entry); err != nil {
		return nil, err
	}

	// 保留正文快照，便于排查抓取质量问题
	if s.artifacts != nil {
		key := entry.Digest + "/page.txt"
		if _, err := s.artifacts.Save(strings.NewReader(page.Text), key); err != nil {
			s.logger.WithError(err).Warn("failed to save page snapshot")
		}
	}

	ingestor, err := s.factory(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestor: %w", err)
	}

	meta := document.Metadata{
		Source:   rawURL,
		FileType: "web",
		Extra:    map[string]string{},
	}
	if page.Title != "" {
		meta.Extra[document.MetaKeyTitle] = page.Title
	}

	ids, err := ingestor.AddText(ctx, page.Text, meta)
	if err != nil {
		s.recordIngest(&models.IngestRecord{
			SourceType: models.SourceTypeWeb,
			Identifier: rawURL,
			Digest:     entry.Digest,
			Status:     models.IngestStatusFailed,
			Error:      err.Error(),
		})
		return nil, fmt.Errorf("failed to vectorize page %s: %w", rawURL, err)
	}

	result.ChunkCount = len(ids)
	result.ItemsOk = 1

	s.recordIngest(&models.IngestRecord{
		SourceType: models.SourceTypeWeb,
		Identifier: rawURL,
		Digest:     entry.Digest,
		ChunkCount: len(ids),
		Status:     models.IngestStatusCompleted,
	})

	s.logger.WithFields(logrus.Fields{
		"url":    rawURL,
		"title":  page.Title,
		"chunks": result.ChunkCount,
	}).Info("web context built")

	return result, nil
}
