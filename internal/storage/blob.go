package storage

import (
	"context"
	"errors"
)

// ErrNotFound 表示对象存储中不存在该键。首次运行时 recipes.json
// 不存在属于正常情况，调用方应将其视为空文档而非错误。
var ErrNotFound = errors.New("object not found")

// BlobStore 是菜谱文档与备份文件使用的对象存储接口。
// 写入总是整对象替换，不存在部分更新。
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
