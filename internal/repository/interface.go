package repository

import "github.com/fyerfyer/doc-RAG-pipeline/internal/models"

// FileRepository 文件摘要仓储接口
// 负责files表中文件摘要记录的存储和检索
type FileRepository interface {
	// Create 创建文件记录
	Create(file *models.FileRecord) error

	// CreateBatch 批量创建文件记录
	CreateBatch(files []*models.FileRecord) error

	// Update 更新文件记录
	Update(file *models.FileRecord) error

	// GetByID 根据ID获取文件记录
	GetByID(id uint) (*models.FileRecord, error)

	// GetByDirectory 根据路径获取文件记录
	GetByDirectory(directory string) (*models.FileRecord, error)

	// List 列出文件记录，支持分页
	List(offset, limit int) ([]*models.FileRecord, int64, error)

	// Delete 删除文件记录
	Delete(id uint) error

	// DeleteAll 清空所有文件记录
	DeleteAll() error
}

// IngestRepository 摄取任务仓储接口
// 负责摄取任务记录的存储和状态跟踪
type IngestRepository interface {
	// Create 创建摄取记录
	Create(record *models.IngestRecord) error

	// Update 更新摄取记录
	Update(record *models.IngestRecord) error

	// GetByID 根据ID获取摄取记录
	GetByID(id string) (*models.IngestRecord, error)

	// GetLatestByDigest 获取指定摘要最近的摄取记录
	GetLatestByDigest(digest string) (*models.IngestRecord, error)

	// List 列出摄取记录，支持分页和来源类型筛选
	List(offset, limit int, sourceType models.SourceType) ([]*models.IngestRecord, int64, error)

	// UpdateStatus 更新摄取状态
	UpdateStatus(id string, status models.IngestStatus, errorMsg string) error
}
