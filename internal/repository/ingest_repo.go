package repository

import (
	"errors"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/database"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ingestRepository 摄取任务仓储实现
type ingestRepository struct {
	db *gorm.DB // 数据库连接
}

// NewIngestRepository 创建摄取仓储实例
func NewIngestRepository() IngestRepository {
	return &ingestRepository{db: database.MustDB()}
}

// NewIngestRepositoryWithDB 使用指定的数据库连接创建摄取仓储实例
func NewIngestRepositoryWithDB(db *gorm.DB) IngestRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &ingestRepository{db: db}
}

// Create 创建摄取记录
// ID为空时自动生成UUID
func (r *ingestRepository) Create(record *models.IngestRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Identifier == "" {
		return errors.New("ingest identifier cannot be empty")
	}
	return r.db.Create(record).Error
}

// Update 更新摄取记录
func (r *ingestRepository) Update(record *models.IngestRecord) error {
	if record.ID == "" {
		return errors.New("ingest ID cannot be empty")
	}
	return r.db.Save(record).Error
}

// GetByID 根据ID获取摄取记录
func (r *ingestRepository) GetByID(id string) (*models.IngestRecord, error) {
	var record models.IngestRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrIngestNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetLatestByDigest 获取指定摘要最近的摄取记录
func (r *ingestRepository) GetLatestByDigest(digest string) (*models.IngestRecord, error) {
	var record models.IngestRecord
	err := r.db.Where("digest = ?", digest).Order("created_at desc").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrIngestNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List 列出摄取记录，支持分页和来源类型筛选
func (r *ingestRepository) List(offset, limit int, sourceType models.SourceType) ([]*models.IngestRecord, int64, error) {
	var records []*models.IngestRecord
	var total int64

	query := r.db.Model(&models.IngestRecord{})
	if sourceType != "" {
		query = query.Where("source_type = ?", sourceType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// UpdateStatus 更新摄取状态
func (r *ingestRepository) UpdateStatus(id string, status models.IngestStatus, errorMsg string) error {
	switch status {
	case models.IngestStatusPending, models.IngestStatusProcessing,
		models.IngestStatusCompleted, models.IngestStatusFailed, models.IngestStatusCached:
	default:
		return models.ErrInvalidIngestStatus
	}

	updates := map[string]interface{}{
		"status": status,
		"error":  errorMsg,
	}
	result := r.db.Model(&models.IngestRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrIngestNotFound
	}
	return nil
}
