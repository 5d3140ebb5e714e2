package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/util"
	"skill_extractor_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (p *LocalStorageProvider) DeletePrefix(ctx context.Context, prefix string) error {
	return os.RemoveAll(filepath.Join(p.Root, filepath.FromSlash(strings.TrimSuffix(prefix, "/"))))
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioStorageProvider) DeletePrefix(ctx context.Context, prefix string) error {
	objects := p.Client.ListObjects(ctx, p.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
	for obj := range objects {
		if obj.Err != nil {
			return obj.Err
		}
		if err := p.Client.RemoveObject(ctx, p.Bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	BucketName string
	Client     *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{BucketName: cfg.OSSBucket, Client: client}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	bucket, err := p.Client.Bucket(p.BucketName)
	if err != nil {
		return err
	}
	return bucket.PutObject(key, reader, oss.ContentType(contentType))
}

func (p *OSSStorageProvider) DeletePrefix(ctx context.Context, prefix string) error {
	bucket, err := p.Client.Bucket(p.BucketName)
	if err != nil {
		return err
	}

	marker := ""
	for {
		res, err := bucket.ListObjects(oss.Prefix(prefix), oss.Marker(marker))
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(res.Objects))
		for _, obj := range res.Objects {
			keys = append(keys, obj.Key)
		}
		if len(keys) > 0 {
			if _, err := bucket.DeleteObjects(keys, oss.DeleteObjectsQuiet(true)); err != nil {
				return err
			}
		}
		if !res.IsTruncated {
			return nil
		}
		marker = res.NextMarker
	}
}

// StorageService 存储服务，保存上传的原始源码文件
type StorageService struct {
	Provider StorageProvider
}

// NewStorageService falls back to local storage when the configured
// backend cannot be initialised.
func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Error("MinIO init failed, using local storage", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Error("OSS init failed, using local storage", zap.Error(err))
		} else {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{Provider: provider}
}

// ProjectPrefix is the key prefix holding a project's files.
func ProjectPrefix(userID, projectID uint) string {
	return fmt.Sprintf("projects/%d/%d/", userID, projectID)
}

// SaveProjectFile stores one uploaded file under the project's prefix.
func (s *StorageService) SaveProjectFile(ctx context.Context, userID, projectID uint, filename string, reader io.Reader, size int64) error {
	name := util.SafeFilename(filename)
	if name == "" {
		return errors.New("empty file name")
	}
	key := path.Join(ProjectPrefix(userID, projectID), name)
	return s.Provider.Upload(ctx, key, reader, size, util.MimeText)
}

func (s *StorageService) DeleteProjectFiles(ctx context.Context, userID, projectID uint) error {
	return s.Provider.DeletePrefix(ctx, ProjectPrefix(userID, projectID))
}
