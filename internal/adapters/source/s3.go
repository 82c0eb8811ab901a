package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key sources. The SDK client is built on first use
// so that processes which never touch S3 need no AWS configuration.
type S3Fetcher struct {
	mu       sync.Mutex
	client   S3API
	region   string
	profile  string
	maxBytes int64
}

// Fetch downloads the object behind source.
func (f *S3Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	bucket, key, err := parseS3URL(source)
	if err != nil {
		return nil, err
	}

	client, err := f.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	if out.ContentLength != nil && *out.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("s3 get %s/%s: %w: %d bytes", bucket, key, ErrPayloadTooLarge, *out.ContentLength)
	}

	b, err := readLimited(out.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", bucket, key, err)
	}
	return b, nil
}

func (f *S3Fetcher) getClient(ctx context.Context) (S3API, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if f.region != "" {
		opts = append(opts, awsconfig.WithRegion(f.region))
	}
	if f.profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(f.profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	f.client = s3.NewFromConfig(cfg)
	return f.client, nil
}

// parseS3URL splits s3://bucket/path/to/key.
func parseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q must be s3://bucket/key", ErrInvalidSource, source)
	}
	return bucket, key, nil
}
