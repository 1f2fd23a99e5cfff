// Package storage presigns journal attachment transfers against any
// S3-compatible bucket (AWS S3, MinIO, R2, DO Spaces). The server never
// proxies file bytes: clients upload and download straight to the bucket
// with short-lived URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Options configures the attachment store. Endpoint is only needed for
// non-AWS providers; empty AccessKey/SecretKey falls back to the ambient
// credential chain.
type Options struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string
	PresignExpiry time.Duration
}

// ErrNotConfigured is returned by uploads when no bucket is configured.
// Downloads degrade to passthrough instead.
var ErrNotConfigured = errors.New("attachment storage is not configured")

// Attachments issues presigned upload and download URLs for journal files.
type Attachments struct {
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	expiry    time.Duration
}

// Upload is one presigned PUT: the client sends the file to URL, then stores
// Key as the attachment reference.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// New builds the attachment store, or returns nil when no bucket is
// configured. A nil *Attachments is safe to call; URL passthrough keeps
// externally hosted attachments working.
func New(ctx context.Context, opts Options) (*Attachments, error) {
	if opts.Bucket == "" {
		return nil, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if opts.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// Path-style addressing, required by MinIO and friends.
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	if opts.Endpoint != "" {
		publicURL = strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	expiry := opts.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &Attachments{
		presign:   s3.NewPresignClient(client),
		bucket:    opts.Bucket,
		publicURL: publicURL,
		expiry:    expiry,
	}, nil
}

func (a *Attachments) Configured() bool { return a != nil }

// PresignUpload mints a PUT URL for a new attachment. Keys are namespaced by
// owner so one owner's files cannot collide with another's.
func (a *Attachments) PresignUpload(ctx context.Context, ownerKey, filename, contentType string) (*Upload, error) {
	if a == nil {
		return nil, ErrNotConfigured
	}

	key := path.Join("journal", ownerKey, uuid.NewString()+"-"+path.Base(filename))
	req, err := a.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = a.expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &Upload{Key: key, URL: req.URL}, nil
}

// DownloadURL resolves an attachment reference to a fetchable URL. Absolute
// URLs pass through untouched; bucket keys are presigned for reading.
func (a *Attachments) DownloadURL(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	if a == nil {
		return ref, nil
	}

	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(ref),
	}, func(o *s3.PresignOptions) {
		o.Expires = a.expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}
