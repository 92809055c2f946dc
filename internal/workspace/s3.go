package workspace

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// S3Workspace targets an S3 bucket/prefix instead of a local directory.
// Folders are key prefixes; EnsureFolder writes a zero-byte marker so
// the folder is visible to object browsers before any file lands in it.
type S3Workspace struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

var _ organizer.Workspace = (*S3Workspace)(nil)

// NewS3Workspace creates a workspace over the given bucket and prefix,
// loading credentials from the ambient AWS config.
func NewS3Workspace(ctx context.Context, bucket, prefix, region string) (*S3Workspace, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 workspace requires a bucket")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Workspace{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

func (w *S3Workspace) Root() string {
	return fmt.Sprintf("s3://%s/%s", w.bucket, w.prefix)
}

func (w *S3Workspace) EnsureFolder(name string) (organizer.Folder, error) {
	key := w.prefix + name + "/"
	_, err := w.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return nil, fmt.Errorf("creating folder marker %q: %w", key, err)
	}
	return s3Folder{bucket: w.bucket, key: key}, nil
}

func (w *S3Workspace) WriteFile(folder organizer.Folder, name string, payload []byte) error {
	f, ok := folder.(s3Folder)
	if !ok {
		return fmt.Errorf("folder handle is not an s3 folder")
	}
	key := f.key + name
	_, err := w.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("uploading %q: %w", key, err)
	}
	return nil
}

type s3Folder struct {
	bucket string
	key    string
}

func (f s3Folder) Path() string { return "s3://" + f.bucket + "/" + f.key }
