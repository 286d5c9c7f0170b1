package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"campfire/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage 对象存储，头像/横幅/帖子图片都走这里；
// Delete 用于多文件上传失败时回滚已传的对象
type Storage interface {
	Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (objectName string, url string, err error)
	Delete(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	cfg    config.MinIO
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinIOClient{client: client, cfg: cfg}, nil
}

func (m *MinIOClient) Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	_, err := m.client.PutObject(ctx, m.cfg.Bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": fileName,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("minio upload: %w", err)
	}

	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.Endpoint, m.cfg.Bucket, objectName)
	return objectName, url, nil
}

func (m *MinIOClient) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.cfg.Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio delete: %w", err)
	}
	return nil
}
