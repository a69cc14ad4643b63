package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	appconfig "github.com/certainlyMohneeesh/AuthSys/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps the S3 operations the profile handler needs. One client
// is built at startup and shared; the SDK client is concurrency safe.
type Client struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	uploader      *manager.Uploader
	bucket        string
}

// NewClient loads AWS credentials through the default provider chain
// (env locally, IAM role in production).
func NewClient(ctx context.Context, cfg appconfig.StorageConfig) (*Client, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(ctx, aws_config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)
	return &Client{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		uploader:      manager.NewUploader(s3Client),
		bucket:        cfg.Bucket,
	}, nil
}

// UploadFile stores a multipart upload under the given key.
func (c *Client) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return key, nil
}

// GetPresignedURL builds a time-limited URL for reading an object.
func (c *Client) GetPresignedURL(ctx context.Context, key string) (string, error) {
	req, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return req.URL, nil
}

// DeleteFile removes an object, used when an avatar is replaced.
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete S3 object %s: %w", key, err)
	}
	return nil
}
