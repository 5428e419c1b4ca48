package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPresigner issues short-lived upload URLs for browser-side uploads.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
}

// S3Presigner presigns PUTs into one bucket. publicBaseURL is where uploaded
// objects are served from (a CDN or the bucket website endpoint).
type S3Presigner struct {
	presign       *s3.PresignClient
	bucket        string
	publicBaseURL string
}

func NewS3Presigner(cfg sdkaws.Config, bucket, publicBaseURL string) *S3Presigner {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return &S3Presigner{
		presign:       s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return req.URL, nil
}

func (p *S3Presigner) PublicURL(key string) string {
	return p.publicBaseURL + "/" + key
}
