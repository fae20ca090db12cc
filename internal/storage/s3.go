package storage

import (
	"bytes"   // Upload body
	"context" // Request context
	"path"    // Object keys

	"github.com/aws/aws-sdk-go-v2/aws"                // AWS helpers
	"github.com/aws/aws-sdk-go-v2/config"             // AWS config loading
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager" // Multipart uploader
	"github.com/aws/aws-sdk-go-v2/service/s3"         // S3 client
)

// S3Store keeps files in a bucket; baseURL is the public prefix of its objects
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store loads the default AWS credential chain
func NewS3Store(ctx context.Context, bucket, baseURL string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{client: client, uploader: manager.NewUploader(client), bucket: bucket, baseURL: baseURL}, nil
}

func (s *S3Store) Save(ctx context.Context, folder, name string, img *Image) (string, error) {
	key := path.Join(folder, name)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", err
	}
	return publicURL(s.baseURL, key), nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := keyFromURL(s.baseURL, url)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
