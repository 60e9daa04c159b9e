package vectordb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DataIntelligenceCrew/go-faiss"
	"github.com/google/uuid"
)

func init() {
	RegisterRepository("faiss", NewFaissRepository)
}

// 存储目录内的固定文件名
const (
	faissIndexFile = "index.faiss"
	faissMetaFile  = "index.faiss.meta.json"
)

// FaissRepository 基于Faiss平铺索引的向量存储实现
// 记录按索引位置顺序保存在元数据边车文件中
type FaissRepository struct {
	mu           sync.RWMutex
	index        faiss.Index
	records      []Record // 与索引位置一一对应
	indexPath    string
	metaPath     string
	dimension    int
	distanceType DistanceType
	closed       bool
}

// NewFaissRepository 创建新的Faiss向量存储
func NewFaissRepository(config Config) (Repository, error) {
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("faiss repository requires a storage path")
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	distType := config.DistanceType
	if distType == "" {
		distType = Cosine
	}

	repo := &FaissRepository{
		indexPath:    filepath.Join(config.Path, faissIndexFile),
		metaPath:     filepath.Join(config.Path, faissMetaFile),
		dimension:    config.Dimension,
		distanceType: distType,
	}

	var index faiss.Index
	var err error

	// 已有索引文件则加载，否则新建
	if fileExists(repo.indexPath) {
		index, err = faiss.ReadIndex(repo.indexPath, 0)
		if err != nil {
			if !config.CreateIfNotExists {
				return nil, fmt.Errorf("failed to read index file: %v", err)
			}
			index, err = createFaissIndex(config.Dimension, distType)
			if err != nil {
				return nil, fmt.Errorf("failed to create faiss index: %v", err)
			}
		} else if err := repo.loadMetadata(); err != nil {
			return nil, fmt.Errorf("failed to load index metadata: %v", err)
		}
	} else {
		index, err = createFaissIndex(config.Dimension, distType)
		if err != nil {
			return nil, fmt.Errorf("failed to create faiss index: %v", err)
		}
	}

	repo.index = index
	return repo, nil
}

// createFaissIndex 创建Faiss平铺索引
func createFaissIndex(dimension int, distType DistanceType) (faiss.Index, error) {
	var metric int
	switch distType {
	case Cosine, DotProduct:
		metric = faiss.MetricInnerProduct
	case Euclidean:
		metric = faiss.MetricL2
	default:
		metric = faiss.MetricL2
	}
	return faiss.NewIndexFlat(dimension, metric)
}

// fileExists 检查文件是否存在
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// AddBatch 批量追加记录到索引
func (r *FaissRepository) AddBatch(records []Record) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrStoreClosed
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	// 先整体校验，避免半批写入索引
	vectors := make([]float32, 0, len(records)*r.dimension)
	for i := range records {
		if err := ValidateVector(records[i].Vector, r.dimension); err != nil {
			return nil, err
		}
		vec := records[i].Vector
		if r.distanceType == Cosine {
			vec = normalizeVector(vec)
		}
		vectors = append(vectors, vec...)
	}

	if err := r.index.Add(vectors); err != nil {
		return nil, fmt.Errorf("failed to add vectors to index: %v", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		// 向量已写入索引，元数据边车不再保存
		rec.Vector = nil
		r.records = append(r.records, rec)
		ids = append(ids, rec.ID)
	}

	return ids, nil
}

// Search 相似度搜索
func (r *FaissRepository) Search(vector []float32, filter SearchFilter) ([]SearchResult, error) {
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
	if r.distanceType == Cosine {
		query = normalizeVector(vector)
	}

	k := int64(filter.MaxResults)
	if total := r.index.Ntotal(); k > total {
		k = total
	}

	distances, labels, err := r.index.Search(query, k)
	if err != nil {
		return nil, fmt.Errorf("faiss search failed: %v", err)
	}

	sourceFilter := make(map[string]bool, len(filter.SourceIDs))
	for _, id := range filter.SourceIDs {
		sourceFilter[id] = true
	}

	results := make([]SearchResult, 0, len(labels))
	for i, label := range labels {
		if label < 0 || int(label) >= len(r.records) {
			continue
		}
		rec := r.records[label]
		if len(sourceFilter) > 0 && !sourceFilter[rec.SourceID] {
			continue
		}

		// 内积度量下返回值是相似度，统一换算为距离和评分
		var dist float32
		switch r.distanceType {
		case Cosine:
			dist = 1 - distances[i]
		default:
			dist = distances[i]
		}
		score := DistanceToScore(dist, r.distanceType)
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
	return results, nil
}

// Count 获取记录总数
func (r *FaissRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// Dimension 返回向量维度
func (r *FaissRepository) Dimension() int {
	return r.dimension
}

// Persist 将索引和元数据刷写到磁盘
func (r *FaissRepository) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	if err := faiss.WriteIndex(r.index, r.indexPath); err != nil {
		return fmt.Errorf("failed to write faiss index: %v", err)
	}
	return r.saveMetadata()
}

// Close 持久化并关闭存储
func (r *FaissRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	if err := faiss.WriteIndex(r.index, r.indexPath); err != nil {
		return fmt.Errorf("failed to write faiss index: %v", err)
	}
	if err := r.saveMetadata(); err != nil {
		return err
	}

	r.closed = true
	r.index.Delete()
	return nil
}

// faissMetadata 元数据边车文件结构
type faissMetadata struct {
	Dimension    int          `json:"dimension"`
	DistanceType DistanceType `json:"distance_type"`
	Records      []Record     `json:"records"`
}

// saveMetadata 保存记录元数据边车文件
func (r *FaissRepository) saveMetadata() error {
	meta := faissMetadata{
		Dimension:    r.dimension,
		DistanceType: r.distanceType,
		Records:      r.records,
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %v", err)
	}

	if err := os.WriteFile(r.metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %v", err)
	}
	return nil
}

// loadMetadata 加载记录元数据边车文件
func (r *FaissRepository) loadMetadata() error {
	data, err := os.ReadFile(r.metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var meta faissMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}

	if meta.Dimension != 0 && meta.Dimension != r.dimension {
		return fmt.Errorf("%w: index has %d, configured %d", ErrInvalidDimension, meta.Dimension, r.dimension)
	}
	r.records = meta.Records
	return nil
}
