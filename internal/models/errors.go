package models

import "errors"

var (
	// ErrFileNotFound 文件记录不存在错误
	ErrFileNotFound = errors.New("file record not found")

	// ErrIngestNotFound 摄取记录不存在错误
	ErrIngestNotFound = errors.New("ingest record not found")

	// ErrInvalidIngestStatus 无效的摄取状态错误
	ErrInvalidIngestStatus = errors.New("invalid ingest status")
)
