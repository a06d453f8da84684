package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type R2Options struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

// R2BlobStore keeps item images in a Cloudflare R2 bucket through the S3
// API. Objects live under uploads/items/ and are served from the bucket's
// public URL.
type R2BlobStore struct {
	client  *s3.Client
	bucket  string
	public  string
	timeout time.Duration
}

func NewR2BlobStore(opts R2Options) *R2BlobStore {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
		Region: opts.Region,
	})

	return &R2BlobStore{
		client:  client,
		bucket:  opts.BucketName,
		public:  strings.TrimSuffix(opts.PublicURL, "/"),
		timeout: 15 * time.Second,
	}
}

func (s *R2BlobStore) Put(ctx context.Context, data []byte, contentType string, ext string) (string, error) {
	key := s.generateItemKey(ext)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPutFailed, err)
	}

	return fmt.Sprintf("%s/%s", s.public, key), nil
}

func (s *R2BlobStore) Delete(ctx context.Context, url string) bool {
	if !strings.HasPrefix(url, s.public+"/") {
		return false
	}
	key := strings.TrimPrefix(url, s.public+"/")
	if key == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *R2BlobStore) generateItemKey(ext string) string {
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("uploads/items/%d_%s%s", time.Now().Unix(), uuid.New().String(), ext)
}
