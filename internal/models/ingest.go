package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IngestStatus 摄取任务状态类型
type IngestStatus string

const (
	// IngestStatusPending 等待处理
	IngestStatusPending IngestStatus = "pending"
	// IngestStatusProcessing 处理中
	IngestStatusProcessing IngestStatus = "processing"
	// IngestStatusCompleted 处理完成
	IngestStatusCompleted IngestStatus = "completed"
	// IngestStatusFailed 处理失败
	IngestStatusFailed IngestStatus = "failed"
	// IngestStatusCached 命中缓存，未重新处理
	IngestStatusCached IngestStatus = "cached"
)

// SourceType 数据来源类型
type SourceType string

const (
	// SourceTypeDirectory 本地目录来源
	SourceTypeDirectory SourceType = "directory"
	// SourceTypeWeb 网页来源
	SourceTypeWeb SourceType = "web"
	// SourceTypePDF PDF文档来源
	SourceTypePDF SourceType = "pdf"
	// SourceTypeSQLite SQLite表来源
	SourceTypeSQLite SourceType = "sqlite"
)

// IngestRecord 摄取任务数据模型
// 记录每次数据来源摄取的状态和结果
type IngestRecord struct {
	ID         string         `gorm:"primaryKey;size:36"` // 任务ID，UUID
	SourceType SourceType     `gorm:"not null;index"`     // 来源类型
	Identifier string         `gorm:"not null"`           // 来源标识（路径或URL）
	Digest     string         `gorm:"size:16;index"`      // 缓存摘要
	ChunkCount int            `gorm:"not null;default:0"` // 生成的分块数量
	Status     IngestStatus   `gorm:"not null;index"`     // 任务状态
	Error      string         `gorm:"type:text"`          // 错误信息
	Metadata   datatypes.JSON `gorm:"type:json"`          // 元数据，JSON格式
	CreatedAt  time.Time      `gorm:"not null;index"`     // 创建时间
	UpdatedAt  time.Time      `gorm:"not null"`           // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (r *IngestRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = time.Now()
	if r.Status == "" {
		r.Status = IngestStatusPending
	}
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (r *IngestRecord) BeforeUpdate(tx *gorm.DB) (err error) {
	r.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (IngestRecord) TableName() string {
	return "ingest_records"
}
