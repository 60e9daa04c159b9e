package vectorizer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fyerfyer/doc-RAG-pipeline/internal/document"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// IngestFromSQLite 从SQLite表中摄取并向量化所有行
// 使用配置的内容列作为可分块内容，其余配置列作为元数据；
// 内容为空的行在嵌入前被丢弃
func (v *Vectorizer) IngestFromSQLite(ctx context.Context, tableName string) ([]string, error) {
	if v.sqlitePath == "" {
		return nil, NewVectorizerError(ErrCodeConfiguration, "sqlite path is not configured")
	}
	if v.contentColumn == "" {
		return nil, NewVectorizerError(ErrCodeConfiguration, "content column is not configured")
	}
	if tableName == "" {
		return nil, NewVectorizerError(ErrCodeValidation, "table name cannot be empty")
	}

	db, err := gorm.Open(sqlite.Open(v.sqlitePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, WrapVectorizerError(ErrCodeConfiguration,
			fmt.Sprintf("failed to open sqlite database at %s", v.sqlitePath), err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	columns := append([]string{v.contentColumn}, v.metadataColumns...)
	rows, err := db.WithContext(ctx).Table(tableName).Select(strings.Join(columns, ", ")).Rows()
	if err != nil {
		return nil, WrapVectorizerError(ErrCodeConfiguration,
			fmt.Sprintf("failed to query table %s", tableName), err)
	}
	defer rows.Close()

	var texts []string
	var metadatas []document.Metadata

	for rows.Next() {
		holders := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range holders {
			dest[i] = &holders[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, WrapVectorizerError(ErrCodeConfiguration, "failed to scan row", err)
		}

		content := holders[0].String
		if strings.TrimSpace(content) == "" {
			continue
		}

		meta := document.Metadata{
			Source: fmt.Sprintf("sqlite://%s#%s", v.sqlitePath, tableName),
		}
		for i, col := range v.metadataColumns {
			if !holders[i+1].Valid {
				continue
			}
			if meta.Extra == nil {
				meta.Extra = make(map[string]string)
			}
			meta.Extra[col] = holders[i+1].String
		}

		texts = append(texts, content)
		metadatas = append(metadatas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapVectorizerError(ErrCodeConfiguration, "row iteration failed", err)
	}

	if len(texts) == 0 {
		v.logger.WithField("table", tableName).Warn("no valid rows found in sqlite table")
		return []string{}, nil
	}

	v.logger.WithFields(logrus.Fields{
		"table": tableName,
		"rows":  len(texts),
	}).Info("ingested rows from sqlite, starting vectorization")

	return v.AddTexts(ctx, texts, metadatas)
}
