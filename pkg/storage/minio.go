package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage MinIO对象存储实现
// 多实例部署时可共享原始资料快照
type MinioStorage struct {
	client     *minio.Client // MinIO客户端
	bucketName string        // 存储桶名称
}

// MinioConfig MinIO存储配置
type MinioConfig struct {
	Endpoint  string // MinIO服务端点
	AccessKey string // 访问密钥ID
	SecretKey string // 秘密访问密钥
	UseSSL    bool   // 是否使用SSL
	Bucket    string // 存储桶名称
}

// NewMinioStorage 创建MinIO存储实例
// 存储桶不存在时自动创建
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %v", err)
		}
	}

	return &MinioStorage{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// Save 以指定键保存对象，已存在时覆盖
func (s *MinioStorage) Save(reader io.Reader, key string) (ObjectInfo, error) {
	if key == "" {
		return ObjectInfo{}, fmt.Errorf("object key cannot be empty")
	}

	contentType := getMimeType(key)

	// 大小未知时传-1，minio-go会使用分片上传
	info, err := s.client.PutObject(
		context.Background(),
		s.bucketName,
		key,
		reader,
		-1,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to upload object: %v", err)
	}

	return ObjectInfo{
		Key:      key,
		Size:     info.Size,
		MimeType: contentType,
	}, nil
}

// Get 获取对象内容
func (s *MinioStorage) Get(key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(context.Background(), s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %v", key, err)
	}

	// GetObject是惰性的，Stat触发实际请求以便尽早发现缺失对象
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, fmt.Errorf("object %s not found: %v", key, err)
	}
	return object, nil
}

// Delete 删除对象
func (s *MinioStorage) Delete(key string) error {
	err := s.client.RemoveObject(context.Background(), s.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %v", key, err)
	}
	return nil
}

// Exists 检查对象是否存在
func (s *MinioStorage) Exists(key string) (bool, error) {
	_, err := s.client.StatObject(context.Background(), s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List 列出指定前缀下的所有对象
func (s *MinioStorage) List(prefix string) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var objects []ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:      object.Key,
			Size:     object.Size,
			MimeType: getMimeType(object.Key),
			ModTime:  object.LastModified,
		})
	}
	return objects, nil
}
