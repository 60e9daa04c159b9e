package vectordb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepository 创建测试用内存存储
func newTestRepository(t *testing.T) Repository {
	repo, err := NewMemoryRepository(Config{
		Dimension:    3,
		DistanceType: Cosine,
	})
	require.NoError(t, err)
	return repo
}

// TestAddBatchAssignsIDs 测试批量添加并分配ID
func TestAddBatchAssignsIDs(t *testing.T) {
	repo := newTestRepository(t)

	records := []Record{
		{SourceID: "a.txt", Text: "first", Vector: []float32{1, 0, 0}},
		{SourceID: "a.txt", Text: "second", Vector: []float32{0, 1, 0}},
		{SourceID: "b.txt", Text: "third", Vector: []float32{0, 0, 1}},
	}

	ids, err := repo.AddBatch(records)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	// ID应该非空且互不相同
	seen := make(map[string]bool)
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "重复的记录ID: %s", id)
		seen[id] = true
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

// TestSearchRanking 测试搜索结果按相似度降序排列
func TestSearchRanking(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AddBatch([]Record{
		{Text: "exact", Vector: []float32{1, 0, 0}},
		{Text: "close", Vector: []float32{0.9, 0.1, 0}},
		{Text: "far", Vector: []float32{0, 0, 1}},
	})
	require.NoError(t, err)

	results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Record.Text)
	assert.Equal(t, "close", results[1].Record.Text)
	assert.Equal(t, "far", results[2].Record.Text)

	// 得分应该单调递减
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

// TestSearchMaxResults 测试结果数量限制
func TestSearchMaxResults(t *testing.T) {
	repo := newTestRepository(t)

	var records []Record
	for i := 0; i < 10; i++ {
		records = append(records, Record{
			Text:   fmt.Sprintf("record-%d", i),
			Vector: []float32{float32(i), 1, 0},
		})
	}
	_, err := repo.AddBatch(records)
	require.NoError(t, err)

	results, err := repo.Search([]float32{1, 1, 0}, SearchFilter{MaxResults: 4})
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

// TestSearchEmptyCases 测试空存储和k=0的边界情况
func TestSearchEmptyCases(t *testing.T) {
	repo := newTestRepository(t)

	// 空存储返回空结果
	results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{MaxResults: 5})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = repo.AddBatch([]Record{{Text: "one", Vector: []float32{1, 0, 0}}})
	require.NoError(t, err)

	// k=0返回空结果
	results, err = repo.Search([]float32{1, 0, 0}, SearchFilter{MaxResults: 0})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearchSourceFilter 测试按来源过滤
func TestSearchSourceFilter(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AddBatch([]Record{
		{SourceID: "a.txt", Text: "from a", Vector: []float32{1, 0, 0}},
		{SourceID: "b.txt", Text: "from b", Vector: []float32{1, 0.1, 0}},
	})
	require.NoError(t, err)

	results, err := repo.Search([]float32{1, 0, 0}, SearchFilter{
		MaxResults: 5,
		SourceIDs:  []string{"b.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "from b", results[0].Record.Text)
}

// TestAddBatchDimensionMismatch 测试维度不匹配
func TestAddBatchDimensionMismatch(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AddBatch([]Record{{Text: "bad", Vector: []float32{1, 0}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = repo.AddBatch([]Record{{Text: "empty", Vector: nil}})
	assert.ErrorIs(t, err, ErrEmptyVector)
}

// TestClosedRepository 测试关闭后的操作
func TestClosedRepository(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Close())

	_, err := repo.AddBatch([]Record{{Text: "late", Vector: []float32{1, 0, 0}}})
	assert.ErrorIs(t, err, ErrStoreClosed)
}
