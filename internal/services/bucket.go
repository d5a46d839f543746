package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/logger"
)

const (
	presignExpiry   = 180 * time.Second
	userUploadsBase = "uploads/jobs/outer/user-uploads"
)

// BucketService owns the object store: avatar images and narration audio live
// in one bucket behind a public gateway.
type BucketService interface {
	UploadBuffer(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PresignUpload(ctx context.Context, fileName, contentType string) (url string, key string, err error)
	DeleteObject(ctx context.Context, key string) error
	// ObjectURL is pure string construction; no existence check is performed.
	ObjectURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	gatewayURL    string
}

func NewBucketService(cfg *config.Config, log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3EndpointURL)
	})

	return &bucketService{
		log:           serviceLog,
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucketName:    cfg.S3Bucket,
		gatewayURL:    cfg.StorageGatewayURL,
	}, nil
}

func (bs *bucketService) UploadBuffer(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := bs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bs.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apierr.Storage(fmt.Errorf("failed to upload object %q: %w", key, err))
	}
	return bs.ObjectURL(key), nil
}

func (bs *bucketService) PresignUpload(ctx context.Context, fileName, contentType string) (string, string, error) {
	key := fmt.Sprintf("%s/%s", userUploadsBase, sanitizeFileName(fileName))
	req, err := bs.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bs.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", apierr.Storage(fmt.Errorf("failed to presign upload for %q: %w", key, err))
	}
	return req.URL, key, nil
}

func (bs *bucketService) DeleteObject(ctx context.Context, key string) error {
	_, err := bs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bs.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return apierr.Storage(fmt.Errorf("failed to delete object %q: %w", key, err))
	}
	return nil
}

func (bs *bucketService) ObjectURL(key string) string {
	return fmt.Sprintf("%s/video/%s", bs.gatewayURL, key)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func sanitizeFileName(name string) string {
	return whitespaceRe.ReplaceAllString(name, "_")
}
