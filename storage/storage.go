// Package storage uploads project images to Supabase Storage through its
// S3-compatible endpoint.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rpupo63/portfolio-site/backend"
)

type Config struct {
	// SupabaseURL is the project URL, e.g. https://abc.supabase.co
	SupabaseURL string
	// Endpoint defaults to {SupabaseURL}/storage/v1/s3
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client implements backend.Storage
type Client struct {
	s3      putObjectAPI
	baseURL string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("storage: supabase url is required")
	}
	baseURL := strings.TrimSuffix(cfg.SupabaseURL, "/")
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = baseURL + "/storage/v1/s3"
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load config: %w", err)
	}

	cli := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // Supabase requires path-style
	})

	return &Client{s3: cli, baseURL: baseURL}, nil
}

func (c *Client) UploadObject(ctx context.Context, bucket, path, contentType string, body []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("storage upload %q: %w", path, err)
	}
	return nil
}

// PublicURL is the unauthenticated download URL of an object in a public bucket
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s%s/%s/%s", c.baseURL, backend.PublicObjectPath, url.PathEscape(bucket), escapePath(path))
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
