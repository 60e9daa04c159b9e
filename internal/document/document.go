package document

// 元数据中约定的扩展键
const (
	// MetaKeySource 来源标识键
	MetaKeySource = "source"
	// MetaKeySummary 摘要键
	MetaKeySummary = "summary"
	// MetaKeyFileType 文件类型键
	MetaKeyFileType = "file_type"
	// MetaKeyTitle 标题键（网页来源使用）
	MetaKeyTitle = "title"
)

// Metadata 文档元数据
// 固定字段覆盖常用键，Extra用于存放其他扩展字段
type Metadata struct {
	Source   string            // 来源标识（文件路径或URL）
	Summary  string            // 预生成的摘要（可选）
	FileType string            // 文件类型（可选）
	Extra    map[string]string // 扩展字段
}

// Map 将元数据转换为字符串映射
// 空字段不会出现在结果中
func (m Metadata) Map() map[string]string {
	result := make(map[string]string, len(m.Extra)+3)
	for k, v := range m.Extra {
		result[k] = v
	}
	if m.Source != "" {
		result[MetaKeySource] = m.Source
	}
	if m.Summary != "" {
		result[MetaKeySummary] = m.Summary
	}
	if m.FileType != "" {
		result[MetaKeyFileType] = m.FileType
	}
	return result
}

// MetadataFromMap 从字符串映射还原元数据
func MetadataFromMap(values map[string]string) Metadata {
	meta := Metadata{}
	for k, v := range values {
		switch k {
		case MetaKeySource:
			meta.Source = v
		case MetaKeySummary:
			meta.Summary = v
		case MetaKeyFileType:
			meta.FileType = v
		default:
			if meta.Extra == nil {
				meta.Extra = make(map[string]string)
			}
			meta.Extra[k] = v
		}
	}
	return meta
}

// Document 文档模型
// 一段文本内容及其元数据，创建后不再修改
type Document struct {
	Content  string   // 文本内容
	Metadata Metadata // 元数据
}

// NewDocument 创建新文档
func NewDocument(content string, metadata Metadata) Document {
	return Document{
		Content:  content,
		Metadata: metadata,
	}
}
