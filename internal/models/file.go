package models

// FileRecord 目录摘要表中的单个文件记录
// content列保存文件的摘要或正文，可作为向量化的数据来源
type FileRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"` // 自增主键
	Directory string `gorm:"not null;index"`           // 文件所在路径
	Content   string `gorm:"type:text;not null"`       // 摘要或正文内容
}

// TableName 明确指定表名
func (FileRecord) TableName() string {
	return "files"
}
