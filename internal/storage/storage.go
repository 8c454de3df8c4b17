package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourism/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// CategoryListings 是目录条目图片的存储分类。
const CategoryListings = "listings"

// ImmutableCacheControl suits content-addressed objects whose bytes never
// change under the same key.
const ImmutableCacheControl = "public, max-age=31536000, immutable"

var (
	// ErrEmptyPayload is returned by every backend when asked to store zero bytes.
	ErrEmptyPayload = errors.New("storage: empty payload")
	// ErrEmptyKey is returned by Delete for a blank key.
	ErrEmptyKey = errors.New("storage: empty key")
)

// SaveOptions 控制存储后端如何持久化文件。
//
// Category 用于组织对象键，Extension 是不含前导点的扩展名，BaseName 为空时使用时间戳。
// SkipIfExists 为 true 时，若同名对象已存在则直接返回其键。
// CacheControl 仅对远程后端生效，写入对象的 Cache-Control 头。
type SaveOptions struct {
	Category     string
	Extension    string
	BaseName     string
	SkipIfExists bool
	CacheControl string
}

// Storage 持久化二进制数据并返回对象键（本地存储为相对路径）。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	// Delete removes the object stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// checkPayload rejects empty writes and requests that are already cancelled.
func checkPayload(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	return checkContext(ctx)
}

// objectKey is the key a remote backend stores opts under.
func objectKey(prefix string, opts SaveOptions) string {
	return joinPrefix(prefix, objectPath(opts))
}

// remoteKey normalizes a key handed back to Delete.
func remoteKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
