package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader stores confirmed scan photos. Constructed once at startup so a
// broken AWS config surfaces there, not mid-request.
type S3Uploader struct {
	client *s3.Client
	bucket string
}

func NewS3Uploader(ctx context.Context, region, bucket string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %v", err)
	}
	return &S3Uploader{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// UploadImage writes a decoded scan photo under scans/<uuid>.<ext> and
// returns its URL.
func (u *S3Uploader) UploadImage(ctx context.Context, img *ImagePayload) (string, error) {
	ext := "bin"
	switch img.MIMEType {
	case "image/jpeg":
		ext = "jpg"
	case "image/png":
		ext = "png"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	case "image/heic":
		ext = "heic"
	case "image/heif":
		ext = "heif"
	}
	key := fmt.Sprintf("scans/%s.%s", uuid.NewString(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.MIMEType),
	})
	if err != nil {
		log.Printf("S3 upload failed: %v", err)
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	if cf := os.Getenv("CLOUDFRONT_URL"); cf != "" {
		return fmt.Sprintf("%s/%s", cf, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
