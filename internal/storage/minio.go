// Package storage keeps the source trade documents (invoice scans, CMR
// way-bills, contracts) that extraction runs against, in MinIO.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client
var BucketName string

func Init() error {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY / MINIO_SECRET_KEY not configured")
	}

	BucketName = os.Getenv("MINIO_BUCKET")
	if BucketName == "" {
		BucketName = "trade-documents"
	}

	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	var err error
	Client, err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	// Verify bucket exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := Client.BucketExists(ctx, BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", BucketName)
	}
	return nil
}

// UploadTradeDocument stores a source document under the brokerage prefix
// and returns the object path.
func UploadTradeDocument(ctx context.Context, brokerAlias, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s", brokerAlias, filename)

	_, err := Client.PutObject(ctx, BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	return objectName, nil
}

// GetPresignedURL returns a short-lived download URL for a stored
// document.
func GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	u, err := Client.PresignedGetObject(ctx, BucketName, objectName, 1*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign document URL: %w", err)
	}
	return u.String(), nil
}

// DeleteDocument removes a stored document.
func DeleteDocument(ctx context.Context, objectName string) error {
	return Client.RemoveObject(ctx, BucketName, objectName, minio.RemoveObjectOptions{})
}

// GetFileExtension maps a content type to a file extension for stored
// object names.
func GetFileExtension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}
