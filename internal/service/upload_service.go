package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/charmsmith/internal/config"
	"github.com/charmsmith/internal/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// UploadService 饰品图片上传服务（对象存储）
type UploadService struct {
	cfg    config.UploadConfig
	client *minio.Client
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig) *UploadService {
	s := &UploadService{cfg: cfg}
	if !cfg.Enabled {
		return s
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Errorw("upload_minio_init_failed", "endpoint", cfg.Endpoint, "error", err)
		return s
	}
	s.client = client
	return s
}

// Enabled 上传是否可用
func (s *UploadService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.client != nil
}

// UploadImage 上传图片并返回可访问地址
func (s *UploadService) UploadImage(ctx context.Context, filename, contentType string, size int64, reader io.Reader) (string, error) {
	if !s.Enabled() {
		return "", ErrUploadDisabled
	}
	if s.cfg.MaxSize > 0 && size > s.cfg.MaxSize {
		return "", ErrUploadTooLarge
	}
	if !s.allowed(contentType, filename) {
		return "", ErrUploadTypeInvalid
	}

	suffix := strings.ToLower(path.Ext(filename))
	objectName := fmt.Sprintf("charms/%s/%s%s", time.Now().Format("200601"), uuid.NewString(), suffix)
	if _, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", err
	}

	base := strings.TrimRight(strings.TrimSpace(s.cfg.PublicBaseURL), "/")
	if base == "" {
		scheme := "http"
		if s.cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket)
	}
	return base + "/" + objectName, nil
}

func (s *UploadService) allowed(contentType, filename string) bool {
	typeOK := len(s.cfg.AllowedTypes) == 0
	for _, allowed := range s.cfg.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			typeOK = true
			break
		}
	}
	if !typeOK {
		return false
	}
	suffix := strings.ToLower(path.Ext(filename))
	suffixOK := len(s.cfg.AllowedSuffixes) == 0
	for _, allowed := range s.cfg.AllowedSuffixes {
		if strings.EqualFold(allowed, suffix) {
			suffixOK = true
			break
		}
	}
	return suffixOK
}
