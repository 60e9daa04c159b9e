package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"github.com/sirupsen/logrus"
)

// DirectoryContext 将本地目录构建为可检索的向量上下文
// 同一目录的上下文通过缓存摘要复用，已有缓存时不重新读取目录；
// forceRebuild为true时忽略已有缓存重新构建
func (s *ContextService) DirectoryContext(ctx context.Context, dir string, forceRebuild bool) (*ContextResult, error) {
	if s.collector == nil {
		return nil, fmt.Errorf("directory collector is not configured")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}

	entry := s.policy.Resolve(dir)
	result := &ContextResult{Entry: entry}

	if !forceRebuild && s.policy.Exists(entry) {
		s.logger.WithFields(logrus.Fields{
			"dir":    dir,
			"digest": entry.Digest,
		}).Info("directory context cache hit, skipping rebuild")
		result.Cached = true
		s.recordIngest(&models.IngestRecord{
			SourceType: models.SourceTypeDirectory,
			Identifier: dir,
			Digest:     entry.Digest,
			Status:     models.IngestStatusCached,
		})
		return result, nil
	}

	files, err := s.collector.Collect(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to collect directory %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no readable files found under %s", dir)
	}

	if err := s.policy.Prepare(entry); err != nil {
		return nil, err
	}

	ingestor, err := s.factory(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestor: %w", err)
	}

	texts := make([]string, 0, len(files))
	metadatas := make([]document.Metadata, 0, len(files))
	fileRecords := make([]*models.FileRecord, 0, len(files))

	for _, f := range files {
		if strings.TrimSpace(f.Content) == "" {
			result.ItemsSkip++
			continue
		}

		meta := document.Metadata{
			Source:   f.Path,
			FileType: fileType(f.Path),
		}
		record := &models.FileRecord{
			Directory: f.Path,
			Content:   f.Content,
		}

		// 摘要生成是尽力而为：失败的文件仍按原文入库，只记入失败计数
		if s.summarizer != nil {
			summary, err := s.summarizer.Summarize(ctx, f.Content)
			if err != nil {
				s.logger.WithError(err).WithField("file", f.Path).Warn("failed to summarize file")
				result.ItemsFail++
			} else {
				meta.Summary = summary
				record.Content = summary
				result.ItemsOk++
			}
		} else {
			result.ItemsOk++
		}

		texts = append(texts, f.Content)
		metadatas = append(metadatas, meta)
		fileRecords = append(fileRecords, record)
	}

	ids, err := ingestor.AddTexts(ctx, texts, metadatas)
	if err != nil {
		s.recordIngest(&models.IngestRecord{
			SourceType: models.SourceTypeDirectory,
			Identifier: dir,
			Digest:     entry.Digest,
			Status:     models.IngestStatusFailed,
			Error:      err.Error(),
		})
		return nil, fmt.Errorf("failed to vectorize directory %s: %w", dir, err)
	}
	result.ChunkCount = len(ids)

	// 文件摘要写入files表，供后续SQLite摄取或查询使用
	if s.fileRepo != nil {
		if err := s.fileRepo.CreateBatch(fileRecords); err != nil {
			s.logger.WithError(err).Warn("failed to persist file records")
		}
	}

	s.recordIngest(&models.IngestRecord{
		SourceType: models.SourceTypeDirectory,
		Identifier: dir,
		Digest:     entry.Digest,
		ChunkCount: len(ids),
		Status:     models.IngestStatusCompleted,
	})

	s.logger.WithFields(logrus.Fields{
		"dir":    dir,
		"files":  result.ItemsOk,
		"chunks": result.ChunkCount,
	}).Info("directory context built")

	return result, nil
}

// fileType 根据路径后缀判断文件类型标签
func fileType(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return "text"
	}
	return strings.ToLower(path[idx+1:])
}
