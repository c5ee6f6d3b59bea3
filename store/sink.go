// Package store puts converted documents somewhere: a local directory, an
// S3 bucket, and a DynamoDB catalog of what was converted.
package store

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
)

// Sink stores one named object and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type FileSink struct {
	Dir string
}

func (s FileSink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := util.EnsureDir(filepath.Dir(target)); err != nil {
		return "", errors.Wrapf(err, "creating directory for %s", name)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", target)
	}
	return target, nil
}

type S3Sink struct {
	Bucket   string
	Prefix   string
	uploader s3manageriface.UploaderAPI
}

// NewSession builds an AWS session; an endpoint targets a local stack.
func NewSession(region, endpoint string) (*session.Session, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create an aws session")
	}
	return sess, nil
}

func NewS3Sink(sess *session.Session, bucket, prefix string) *S3Sink {
	return &S3Sink{Bucket: bucket, Prefix: prefix, uploader: s3manager.NewUploader(sess)}
}

func (s *S3Sink) key(name string) string {
	return path.Join(s.Prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "uploading %s to %s", name, s.Bucket)
	}
	return out.Location, nil
}

// Multi writes to every sink in order and reports the first location.
type Multi []Sink

func (m Multi) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	var first string
	for i, s := range m {
		loc, err := s.Put(ctx, name, data, contentType)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = loc
		}
	}
	return first, nil
}
