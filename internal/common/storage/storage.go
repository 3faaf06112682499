// internal/common/storage/storage.go

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// Uploader stores media files and returns a publicly reachable URL
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error)
}

// objectKey builds a collision-free key, keeping the original extension
func objectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}

// S3Uploader stores files in an S3 bucket
type S3Uploader struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Uploader(region, bucket, prefix string) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &S3Uploader{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	key := objectKey(u.prefix, filename)

	result, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	return result.Location, nil
}

// LocalUploader writes files under a local directory, for development
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	key := objectKey("media", filename)

	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s", u.baseURL, key), nil
}
