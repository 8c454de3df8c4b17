package storage

import (
	"errors"
	"fmt"
	"strings"

	"tourism/internal/config"
)

// NewR2Storage 创建 Cloudflare R2 存储，R2 通过 S3 兼容接口访问。
func NewR2Storage(cfg config.Config) (Storage, error) {
	endpoint, err := r2Endpoint(cfg.StorageR2Endpoint, cfg.StorageR2AccountID)
	if err != nil {
		return nil, err
	}
	region := strings.TrimSpace(cfg.StorageR2Region)
	if region == "" {
		region = "auto"
	}
	return newS3Storage("R2", s3ClientOptions{
		Bucket:          cfg.StorageR2Bucket,
		Prefix:          cfg.StorageR2Prefix,
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     cfg.StorageR2AccessKeyID,
		SecretAccessKey: cfg.StorageR2SecretAccessKey,
		ForcePathStyle:  true,
	})
}

// r2Endpoint prefers an explicit endpoint and otherwise derives the account
// endpoint.
func r2Endpoint(endpoint, accountID string) (string, error) {
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		return endpoint, nil
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", errors.New("storage: missing R2 endpoint or account id")
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID), nil
}
