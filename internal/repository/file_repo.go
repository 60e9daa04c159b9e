package repository

import (
	"errors"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/database"
	"github.com/fyerfyer/doc-RAG-pipeline/internal/models"
	"gorm.io/gorm"
)

// fileRepository 文件摘要仓储实现
type fileRepository struct {
	db *gorm.DB // 数据库连接
}

// NewFileRepository 创建文件仓储实例
func NewFileRepository() FileRepository {
	return &fileRepository{db: database.MustDB()}
}

// NewFileRepositoryWithDB 使用指定的数据库连接创建文件仓储实例
func NewFileRepositoryWithDB(db *gorm.DB) FileRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &fileRepository{db: db}
}

// Create 创建文件记录
func (r *fileRepository) Create(file *models.FileRecord) error {
	if file.Directory == "" {
		return errors.New("file directory cannot be empty")
	}
	return r.db.Create(file).Error
}

// CreateBatch 批量创建文件记录
func (r *fileRepository) CreateBatch(files []*models.FileRecord) error {
	if len(files) == 0 {
		return nil
	}
	for _, f := range files {
		if f.Directory == "" {
			return errors.New("file directory cannot be empty")
		}
	}
	return r.db.Create(files).Error
}

// Update 更新文件记录
func (r *fileRepository) Update(file *models.FileRecord) error {
	if file.ID == 0 {
		return errors.New("file ID cannot be zero")
	}
	return r.db.Save(file).Error
}

// GetByID 根据ID获取文件记录
func (r *fileRepository) GetByID(id uint) (*models.FileRecord, error) {
	var file models.FileRecord
	err := r.db.Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// GetByDirectory 根据路径获取文件记录
func (r *fileRepository) GetByDirectory(directory string) (*models.FileRecord, error) {
	var file models.FileRecord
	err := r.db.Where("directory = ?", directory).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// List 列出文件记录，支持分页
func (r *fileRepository) List(offset, limit int) ([]*models.FileRecord, int64, error) {
	var files []*models.FileRecord
	var total int64

	query := r.db.Model(&models.FileRecord{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("id asc").Find(&files).Error; err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// Delete 删除文件记录
func (r *fileRepository) Delete(id uint) error {
	result := r.db.Delete(&models.FileRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

// DeleteAll 清空所有文件记录
func (r *fileRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.FileRecord{}).Error
}
