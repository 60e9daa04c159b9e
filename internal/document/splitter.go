package document

import (
	"strings"
	"unicode"
)

// DefaultSeparators 默认分隔符优先级
// 从段落到换行、句子标点、单词边界，最后退化为按字符切分
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", "。", "！", "？", ". ", "! ", "? ", "; ", "；", " ", ""}
}

// SplitterConfig 分段器配置
type SplitterConfig struct {
	ChunkSize    int      // 分块大小（按字符数），软上限
	ChunkOverlap int      // 相邻分块的重叠大小（字符数），尽力保证
	Separators   []string // 分隔符优先级，空字符串表示按字符切分
}

// DefaultSplitterConfig 返回默认分段器配置
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		ChunkSize:    500,
		ChunkOverlap: 200,
		Separators:   DefaultSeparators(),
	}
}

// Splitter 递归边界感知的文本分段器
// 按分隔符优先级切分文本，优先在最自然的边界断开；
// 无状态，同一输入的两次切分结果一致
type Splitter struct {
	config SplitterConfig
}

// NewSplitter 创建新的分段器
func NewSplitter(config SplitterConfig) *Splitter {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 500
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = 0
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 2
	}
	if len(config.Separators) == 0 {
		config.Separators = DefaultSeparators()
	}
	return &Splitter{config: config}
}

// Config 返回分段器配置
func (s *Splitter) Config() SplitterConfig {
	return s.config
}

// Split 将文档切分为多个分块文档
// 每个分块携带原文档的元数据；空白文档返回零个分块
func (s *Splitter) Split(doc Document) []Document {
	texts := s.SplitText(doc.Content)

	chunks := make([]Document, 0, len(texts))
	for _, text := range texts {
		chunks = append(chunks, Document{
			Content:  text,
			Metadata: doc.Metadata,
		})
	}
	return chunks
}

// SplitDocuments 依次切分多个文档并展平结果
func (s *Splitter) SplitDocuments(docs []Document) []Document {
	var chunks []Document
	for _, doc := range docs {
		chunks = append(chunks, s.Split(doc)...)
	}
	return chunks
}

// SplitText 将文本切分为多个分块
// 分块长度以ChunkSize为目标，找不到更低优先级的切分点时可能超出
func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitRecursive(text, s.config.Separators)
}

// splitRecursive 按分隔符优先级递归切分文本
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	// 选择当前文本中出现的最高优先级分隔符
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	// 没有可用的分隔符，退化为按长度硬切分
	if sep == "" {
		return s.splitByLength(text)
	}

	// SplitAfter保留分隔符，保证分块内容是原文的连续子串
	pieces := strings.SplitAfter(text, sep)

	var result []string
	var pending []string

	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if len(piece) < s.config.ChunkSize {
			pending = append(pending, piece)
			continue
		}
		// 过长的片段先把已累积的小片段合并输出，再用更低优先级的分隔符继续切分
		if len(pending) > 0 {
			result = append(result, s.mergePieces(pending)...)
			pending = nil
		}
		result = append(result, s.splitRecursive(piece, rest)...)
	}

	if len(pending) > 0 {
		result = append(result, s.mergePieces(pending)...)
	}

	return result
}

// mergePieces 将小片段贪心合并为接近ChunkSize的分块
// 分块之间保留约ChunkOverlap个字符的重叠
func (s *Splitter) mergePieces(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		if total+len(piece) > s.config.ChunkSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// 收缩窗口，尾部片段作为下一个分块的重叠部分
			for len(window) > 0 &&
				(total > s.config.ChunkOverlap ||
					(total+len(piece) > s.config.ChunkSize && total > 0)) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitByLength 按固定长度硬切分文本
// 以字符为单位推进窗口，保证不会截断多字节字符；
// 尽量在空白处断开，避免截断单词
func (s *Splitter) splitByLength(text string) []string {
	step := s.config.ChunkSize - s.config.ChunkOverlap
	if step <= 0 {
		step = s.config.ChunkSize
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); {
		end := start + s.config.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		next := start + step

		// 向前寻找空白边界
		if end < len(runes) {
			boundary := end
			for boundary > start && !unicode.IsSpace(runes[boundary]) {
				boundary--
			}
			if boundary > start {
				end = boundary
				// 边界收缩后下一个窗口不能越过已输出的末尾，否则会丢字
				if next > end {
					next = end
				}
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		start = next
	}

	return chunks
}
