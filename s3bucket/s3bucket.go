package s3bucket

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client the bucket uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Bucket stores generated documents.
type S3Bucket struct {
	client    ObjectAPI
	bucket    string
	region    string
	mediaType string
}

func NewS3Bucket(ctx context.Context, region string, bucket string, mediaType string) (*S3Bucket, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), region, bucket, mediaType), nil
}

func NewWithClient(client ObjectAPI, region string, bucket string, mediaType string) *S3Bucket {
	return &S3Bucket{
		client:    client,
		bucket:    bucket,
		region:    region,
		mediaType: mediaType,
	}
}

// Upload stores content under key and returns the object URL.
func (bucket *S3Bucket) Upload(ctx context.Context, content []byte, key string, mediaType string) (string, error) {
	_, err := bucket.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(mediaType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	objectURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket.bucket, bucket.region, key)
	return objectURL, nil
}

// Archive uploads content with the bucket's media type.
func (bucket *S3Bucket) Archive(ctx context.Context, key string, content []byte) error {
	_, err := bucket.Upload(ctx, content, key, bucket.mediaType)
	return err
}
