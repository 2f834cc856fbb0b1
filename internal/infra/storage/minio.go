package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements analysis.ImageStore on a MinIO/S3 bucket.
type MinioStore struct {
	client        *minio.Client
	bucketName    string
	prefix        string
	presignExpiry time.Duration
}

// NewMinio buat koneksi MinIO dan pastikan bucket ada.
// presignExpiry 0 returns plain object URLs (public bucket).
func NewMinio(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, presignExpiry time.Duration) (*MinioStore, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &MinioStore{client: cli, bucketName: bucket, prefix: "annotated", presignExpiry: presignExpiry}, nil
}

// Publish upload file lokal ke bucket; file lokal tetap disimpan di scratch dir
func (s *MinioStore) Publish(ctx context.Context, localPath, key string) (string, error) {
	objectKey := s.objectKey(key)
	_, err := s.client.FPutObject(ctx, s.bucketName, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}

	if s.presignExpiry > 0 {
		u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, s.presignExpiry, nil)
		if err != nil {
			return "", fmt.Errorf("presign %s: %w", objectKey, err)
		}
		return u.String(), nil
	}

	return s.publicURL(objectKey), nil
}

func (s *MinioStore) objectKey(key string) string {
	return s.prefix + "/" + strings.TrimLeft(key, "/")
}

// URL publik (bucket harus public)
func (s *MinioStore) publicURL(objectKey string) string {
	return s.client.EndpointURL().JoinPath(s.bucketName, objectKey).String()
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
