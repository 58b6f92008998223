// Package s3 talks to the S3-compatible bucket that holds attached session
// documents. Objects are private; reads go through short-lived signed URLs.
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ceprunsa/consultorio_backend/config"
)

const defaultSignedURLTTL = 5 * time.Minute

// Bucket is a handle on the configured document bucket.
type Bucket struct {
	api    *s3.Client
	signer *s3.PresignClient
	name   string
	urlTTL time.Duration
}

// Open builds the S3 client from the storage config and returns a handle on
// the configured bucket.
func Open(cfg config.StorageConfig) (*Bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket name is required")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awscfg.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...any) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					SigningRegion:     cfg.Region,
					HostnameImmutable: true,
				}, nil
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO and most S3-compatible stores require path-style addressing.
		o.UsePathStyle = true
	})

	b := &Bucket{
		api:    api,
		signer: s3.NewPresignClient(api),
		name:   cfg.Bucket,
		urlTTL: time.Duration(cfg.PresignTTLSec) * time.Second,
	}
	if b.urlTTL <= 0 {
		b.urlTTL = defaultSignedURLTTL
	}
	return b, nil
}

// Put stores an object under the given key.
func (b *Bucket) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("s3: put %q: %w", key, err)
	}
	return nil
}

// SignedGetURL returns a presigned GET URL for the object, valid for the
// configured TTL.
func (b *Bucket) SignedGetURL(ctx context.Context, key string) (string, error) {
	req, err := b.signer.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(b.urlTTL))
	if err != nil {
		return "", fmt.Errorf("s3: presign %q: %w", key, err)
	}
	return req.URL, nil
}

// Remove deletes the object.
func (b *Bucket) Remove(ctx context.Context, key string) error {
	if _, err := b.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3: delete %q: %w", key, err)
	}
	return nil
}
