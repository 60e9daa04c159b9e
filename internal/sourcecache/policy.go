package sourcecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// DigestLength 缓存目录名使用的摘要长度（十六进制字符数）
const DigestLength = 16

// Digest 根据来源标识计算缓存摘要
// 取sha256十六进制的前16个字符，同一标识总是得到同一摘要
func Digest(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])[:DigestLength]
}

// Entry 某个来源标识对应的缓存条目
type Entry struct {
	Identifier string // 原始来源标识（目录路径、URL等）
	Digest     string // 摘要
	Path       string // 缓存目录的完整路径
}

// Policy 缓存命中判定策略
// 决定某个来源是否已有可复用的缓存
type Policy interface {
	// Resolve 解析来源标识对应的缓存条目
	Resolve(identifier string) Entry

	// Exists 判断条目是否已有可复用的缓存
	Exists(entry Entry) bool

	// Prepare 为条目创建缓存目录
	Prepare(entry Entry) error
}

// DirPolicy 基于目录存在性的缓存策略
// 缓存目录存在且非空即视为命中
type DirPolicy struct {
	baseDir string // 缓存根目录
}

// NewDirPolicy 创建目录缓存策略
func NewDirPolicy(baseDir string) *DirPolicy {
	return &DirPolicy{baseDir: baseDir}
}

// BaseDir 返回缓存根目录
func (p *DirPolicy) BaseDir() string {
	return p.baseDir
}

// Resolve 解析来源标识对应的缓存条目
func (p *DirPolicy) Resolve(identifier string) Entry {
	digest := Digest(identifier)
	return Entry{
		Identifier: identifier,
		Digest:     digest,
		Path:       filepath.Join(p.baseDir, digest),
	}
}

// Exists 判断缓存目录是否存在且非空
// 空目录视为未命中，上次构建可能中途失败
func (p *DirPolicy) Exists(entry Entry) bool {
	info, err := os.Stat(entry.Path)
	if err != nil || !info.IsDir() {
		return false
	}

	entries, err := os.ReadDir(entry.Path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// Prepare 创建缓存目录（含父目录）
func (p *DirPolicy) Prepare(entry Entry) error {
	if err := os.MkdirAll(entry.Path, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", entry.Path, err)
	}
	return nil
}
