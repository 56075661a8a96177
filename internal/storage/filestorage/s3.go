package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appstorage "portfolio/internal/storage"
)

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
	// BaseURL публичный адрес бакета (CDN). Если пусто, строится из endpoint/bucket
	BaseURL string
}

type s3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3FileStorage хранит загрузки в S3-совместимом бакете
type S3FileStorage struct {
	client   s3API
	uploader uploader
	bucket   string
	prefix   string
	baseURL  string
}

func NewS3FileStorage(ctx context.Context, opts S3Options) (*S3FileStorage, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 storage requires bucket to be set")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := opts.BaseURL
	if baseURL == "" {
		if opts.Endpoint != "" {
			baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return newS3FileStorage(client, manager.NewUploader(client), opts.Bucket, opts.Prefix, baseURL), nil
}

func newS3FileStorage(client s3API, up uploader, bucket, prefix, baseURL string) *S3FileStorage {
	return &S3FileStorage{
		client:   client,
		uploader: up,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3FileStorage) Save(ctx context.Context, src io.Reader, relPath, contentType string) (int64, error) {
	counter := &countingReader{r: src}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relPath)),
		Body:   counter,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to upload object: %w", err)
	}

	return counter.n, nil
}

func (s *S3FileStorage) Delete(ctx context.Context, relPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relPath)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return appstorage.ErrFileNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *S3FileStorage) URL(relPath string) string {
	return s.baseURL + "/" + s.key(relPath)
}

func (s *S3FileStorage) key(relPath string) string {
	clean := strings.TrimLeft(path.Clean("/"+relPath), "/")
	if s.prefix == "" {
		return clean
	}
	return s.prefix + "/" + clean
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
