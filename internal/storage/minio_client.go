package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned by Load when no object exists under the
// given path.
var ErrObjectNotFound = errors.New("object not found")

// MediaStorage accepts uploaded images, returns addressable object
// paths under a per-user namespace, and serves the stored bytes back.
type MediaStorage interface {
	SavePostImage(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error)
	SaveAvatar(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error)
	Load(ctx context.Context, objectName string) (io.ReadCloser, string, error)
}

// MinIOStorage implements MediaStorage on a MinIO bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage connects to MinIO and ensures the media bucket exists.
func NewMinIOStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check media bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create media bucket: %w", err)
		}
	}

	return &MinIOStorage{client: client, bucket: bucket}, nil
}

// SavePostImage stores a post image under posts/{username}/... and
// returns its object path.
func (s *MinIOStorage) SavePostImage(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error) {
	return s.put(ctx, postObjectName(username, fileName), fileName, file, size)
}

// SaveAvatar stores an avatar under avatars/{username}/... and returns
// its object path.
func (s *MinIOStorage) SaveAvatar(ctx context.Context, username, fileName string, file io.Reader, size int64) (string, error) {
	return s.put(ctx, avatarObjectName(username, fileName), fileName, file, size)
}

// Load opens the stored object and reports its content type.
func (s *MinIOStorage) Load(ctx context.Context, objectName string) (io.ReadCloser, string, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read from MinIO: %w", err)
	}

	// GetObject is lazy; Stat performs the request and surfaces a
	// missing key.
	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to read from MinIO: %w", err)
	}

	return object, stat.ContentType, nil
}

func (s *MinIOStorage) put(ctx context.Context, objectName, originalName string, file io.Reader, size int64) (string, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(objectName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": originalName,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return objectName, nil
}

// postObjectName builds posts/{username}/{filename}. A random name keeps
// repeated uploads of the same file from clobbering each other.
func postObjectName(username, fileName string) string {
	return fmt.Sprintf("posts/%s/%s%s", username, uuid.New().String(), normalizedExt(fileName))
}

// avatarObjectName builds avatars/{username}/{filename}.
func avatarObjectName(username, fileName string) string {
	return fmt.Sprintf("avatars/%s/%s%s", username, uuid.New().String(), normalizedExt(fileName))
}

func normalizedExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
