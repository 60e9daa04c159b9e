package repository

import (
	"path/filepath"
	"testing"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建测试用的临时数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.FileRecord{}, &models.IngestRecord{}))
	return db
}

// TestFileRepositoryCRUD 测试文件仓储的基本操作
func TestFileRepositoryCRUD(t *testing.T) {
	repo := NewFileRepositoryWithDB(setupTestDB(t))

	// 创建
	file := &models.FileRecord{Directory: "/src/main.go", Content: "entry point summary"}
	require.NoError(t, repo.Create(file))
	assert.NotZero(t, file.ID)

	// 路径为空时拒绝创建
	err := repo.Create(&models.FileRecord{Content: "no directory"})
	assert.Error(t, err)

	// 按ID查询
	got, err := repo.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "/src/main.go", got.Directory)

	// 按路径查询
	got, err = repo.GetByDirectory("/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)

	// 更新
	got.Content = "updated summary"
	require.NoError(t, repo.Update(got))

	got, err = repo.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated summary", got.Content)

	// 删除
	require.NoError(t, repo.Delete(file.ID))
	_, err = repo.GetByID(file.ID)
	assert.ErrorIs(t, err, models.ErrFileNotFound)

	// 删除不存在的记录
	err = repo.Delete(9999)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

// TestFileRepositoryBatchAndList 测试批量创建和分页列表
func TestFileRepositoryBatchAndList(t *testing.T) {
	repo := NewFileRepositoryWithDB(setupTestDB(t))

	files := []*models.FileRecord{
		{Directory: "/a.go", Content: "a"},
		{Directory: "/b.go", Content: "b"},
		{Directory: "/c.go", Content: "c"},
	}
	require.NoError(t, repo.CreateBatch(files))

	list, total, err := repo.List(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "/a.go", list[0].Directory)

	list, _, err = repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/c.go", list[0].Directory)

	require.NoError(t, repo.DeleteAll())
	_, total, err = repo.List(0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

// TestIngestRepositoryCRUD 测试摄取仓储的基本操作
func TestIngestRepositoryCRUD(t *testing.T) {
	repo := NewIngestRepositoryWithDB(setupTestDB(t))

	record := &models.IngestRecord{
		SourceType: models.SourceTypeDirectory,
		Identifier: "/data/project",
		Digest:     "abcdef0123456789",
	}
	require.NoError(t, repo.Create(record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.IngestStatusPending, record.Status)

	// 按ID查询
	got, err := repo.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, "/data/project", got.Identifier)

	// 按摘要查询
	got, err = repo.GetLatestByDigest("abcdef0123456789")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	// 状态更新
	require.NoError(t, repo.UpdateStatus(record.ID, models.IngestStatusCompleted, ""))
	got, err = repo.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IngestStatusCompleted, got.Status)

	// 无效状态被拒绝
	err = repo.UpdateStatus(record.ID, "bogus", "")
	assert.ErrorIs(t, err, models.ErrInvalidIngestStatus)

	// 不存在的记录
	err = repo.UpdateStatus("missing-id", models.IngestStatusFailed, "boom")
	assert.ErrorIs(t, err, models.ErrIngestNotFound)
}

// TestIngestRepositoryList 测试摄取记录筛选列表
func TestIngestRepositoryList(t *testing.T) {
	repo := NewIngestRepositoryWithDB(setupTestDB(t))

	require.NoError(t, repo.Create(&models.IngestRecord{
		SourceType: models.SourceTypeDirectory, Identifier: "/a"}))
	require.NoError(t, repo.Create(&models.IngestRecord{
		SourceType: models.SourceTypeWeb, Identifier: "https://example.com"}))

	_, total, err := repo.List(0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, total, err := repo.List(0, 0, models.SourceTypeWeb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "https://example.com", list[0].Identifier)
}
