package vectorizer

import (
	"context"
	"fmt"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/vectordb"
	"github.com/sirupsen/logrus"
)

// persistInBatches 将分块按批次嵌入并写入向量存储
// 批次严格顺序处理：某一批写入失败会中止剩余批次并传播错误，
// 此前批次已写入的记录保留在存储中（至少一次的部分写入，非原子）
func (v *Vectorizer) persistInBatches(ctx context.Context, chunks []document.Document) ([]string, error) {
	total := len(chunks)
	if total == 0 {
		return []string{}, nil
	}

	totalBatches := (total + v.batchSize - 1) / v.batchSize
	if totalBatches > 1 {
		v.logger.WithFields(logrus.Fields{
			"chunks":     total,
			"batches":    totalBatches,
			"batch_size": v.batchSize,
		}).Info("persisting chunks in multiple batches")
	}

	allIDs := make([]string, 0, total)

	for start := 0; start < total; start += v.batchSize {
		end := start + v.batchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]
		batchNum := start/v.batchSize + 1

		ids, err := v.persistBatch(ctx, batch)
		if err != nil {
			v.logger.WithFields(logrus.Fields{
				"batch": batchNum,
				"total": totalBatches,
			}).WithError(err).Error("batch persistence failed, aborting remaining batches")
			return nil, err
		}

		allIDs = append(allIDs, ids...)

		if totalBatches > 1 {
			v.logger.WithFields(logrus.Fields{
				"batch":  batchNum,
				"total":  totalBatches,
				"chunks": len(batch),
			}).Debug("batch persisted")
		}
	}

	return allIDs, nil
}

// persistBatch 嵌入并写入单个批次
func (v *Vectorizer) persistBatch(ctx context.Context, batch []document.Document) ([]string, error) {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	vectors, err := v.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, NewVectorizerError(ErrCodePersistence,
			fmt.Sprintf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors)))
	}

	records := make([]vectordb.Record, len(batch))
	for i, chunk := range batch {
		records[i] = vectordb.Record{
			SourceID: chunk.Metadata.Source,
			Text:     chunk.Content,
			Vector:   vectors[i],
			Metadata: chunk.Metadata.Map(),
		}
	}

	ids, err := v.store.AddBatch(records)
	if err != nil {
		return nil, WrapVectorizerError(ErrCodePersistence, "vector store write failed", err)
	}
	return ids, nil
}
