package vectordb

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

func init() {
	RegisterRepository("memory", NewMemoryRepository)
}

// MemoryRepository 内存向量存储实现
// 用于开发和测试环境，不做持久化
type MemoryRepository struct {
	mu        sync.RWMutex
	records   []Record
	dimension int
	distType  DistanceType
	closed    bool
}

// NewMemoryRepository 创建内存向量存储
func NewMemoryRepository(config Config) (Repository, error) {
	distType := config.DistanceType
	if distType == "" {
		distType = Cosine
	}

	return &MemoryRepository{
		dimension: config.Dimension,
		distType:  distType,
	}, nil
}

// AddBatch 批量追加记录
func (r *MemoryRepository) AddBatch(records []Record) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrStoreClosed
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if err := ValidateVector(rec.Vector, r.dimension); err != nil {
			return nil, err
		}
		// 首条记录确定未配置的维度
		if r.dimension == 0 {
			r.dimension = len(rec.Vector)
		}
		if r.distType == Cosine {
			rec.Vector = normalizeVector(rec.Vector)
		}
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		r.records = append(r.records, rec)
		ids = append(ids, rec.ID)
	}

	return ids, nil
}

// Search 相似度搜索
func (r *MemoryRepository) Search(vector []float32, filter SearchFilter) ([]SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrStoreClosed
	}
	if filter.MaxResults <= 0 || len(r.records) == 0 {
		return []SearchResult{}, nil
	}
	if err := ValidateVector(vector, r.dimension); err != nil {
		return nil, err
	}

	query := vector
	if r.distType == Cosine {
		query = normalizeVector(vector)
	}

	sourceFilter := make(map[string]bool, len(filter.SourceIDs))
	for _, id := range filter.SourceIDs {
		sourceFilter[id] = true
	}

	var results []SearchResult
	for _, rec := range r.records {
		if len(sourceFilter) > 0 && !sourceFilter[rec.SourceID] {
			continue
		}

		dist, err := ComputeDistance(query, rec.Vector, r.distType)
		if err != nil {
			return nil, err
		}

		score := DistanceToScore(dist, r.distType)
		if score < filter.MinScore {
			continue
		}

		results = append(results, SearchResult{
			Record:   rec,
			Score:    score,
			Distance: dist,
		})
	}

	SortSearchResults(results)
	if len(results) > filter.MaxResults {
		results = results[:filter.MaxResults]
	}

	if results == nil {
		results = []SearchResult{}
	}
	return results, nil
}

// Count 获取记录总数
func (r *MemoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// Dimension 返回向量维度
func (r *MemoryRepository) Dimension() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dimension
}

// Persist 内存实现不做持久化
func (r *MemoryRepository) Persist() error {
	return nil
}

// Close 关闭存储
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
