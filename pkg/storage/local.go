package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 本地文件系统存储实现
// 对象键直接映射为基础目录下的相对路径
type LocalStorage struct {
	basePath string // 基础存储路径
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path string // 本地存储路径
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %v", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	return &LocalStorage{basePath: absPath}, nil
}

// resolve 将对象键解析为本地路径，拒绝越出基础目录的键
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key cannot be empty")
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// Save 以指定键保存对象，已存在时覆盖
func (s *LocalStorage) Save(reader io.Reader, key string) (ObjectInfo, error) {
	path, err := s.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to create directory: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to write file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to stat saved file: %v", err)
	}

	return ObjectInfo{
		Key:      key,
		Size:     size,
		MimeType: getMimeType(key),
		ModTime:  info.ModTime(),
	}, nil
}

// Get 获取对象内容
func (s *LocalStorage) Get(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s not found", key)
		}
		return nil, fmt.Errorf("failed to open object: %v", err)
	}
	return file, nil
}

// Delete 删除对象
func (s *LocalStorage) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("object %s not found", key)
		}
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List 列出指定前缀下的所有对象
func (s *LocalStorage) List(prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}

		objects = append(objects, ObjectInfo{
			Key:      key,
			Size:     info.Size(),
			MimeType: getMimeType(key),
			ModTime:  info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %v", err)
	}

	return objects, nil
}
