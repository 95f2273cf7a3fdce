package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ObjectPutter is the part of the S3 client the mirror uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageMirror copies saved covers to an S3 bucket.
type ImageMirror struct {
	Client ObjectPutter
	Bucket string
	Prefix string
}

// NewImageMirror loads the default AWS credential chain for region and
// returns a mirror for bucket.
func NewImageMirror(ctx context.Context, region, bucket, prefix string) (*ImageMirror, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	log.Info().Str("bucket", bucket).Msg("S3 image mirror enabled")
	return &ImageMirror{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Prefix: prefix,
	}, nil
}

// Key returns the object key for a cover file name.
func (m *ImageMirror) Key(name string) string {
	if m.Prefix == "" {
		return name
	}
	return path.Join(m.Prefix, name)
}

// UploadFile stores the PNG at localPath under Key(base name) and returns the key.
func (m *ImageMirror) UploadFile(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	key := m.Key(filepath.Base(localPath))
	_, err = m.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return key, nil
}
