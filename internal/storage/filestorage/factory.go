package storage

import (
	"context"
	"fmt"

	"portfolio/internal/config"
)

// NewFromConfig выбирает реализацию хранилища по file_storage.driver
func NewFromConfig(ctx context.Context, fsCfg config.FileStorageConfig, s3Cfg config.S3Config) (FileStorage, error) {
	switch fsCfg.Driver {
	case "", "local":
		if fsCfg.BaseDir == "" {
			return nil, fmt.Errorf("local file storage requires base_dir to be set")
		}
		return NewLocalFileStorage(fsCfg.BaseDir, fsCfg.BaseURL)
	case "s3":
		return NewS3FileStorage(ctx, S3Options{
			Bucket:    s3Cfg.Bucket,
			Region:    s3Cfg.Region,
			Endpoint:  s3Cfg.Endpoint,
			AccessKey: s3Cfg.AccessKey,
			SecretKey: s3Cfg.SecretKey,
			Prefix:    s3Cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown file storage driver: %s", fsCfg.Driver)
	}
}
