package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API abstracts the S3 operation the uploader needs. The [s3.Client]
// type satisfies this interface.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader publishes artifacts to Amazon S3 or any S3-compatible store
// (MinIO, R2, etc.). The client must be pre-configured with credentials,
// region, and endpoint; baseURL is the public URL root objects are served
// from (e.g. a CDN or the bucket endpoint).
type S3Uploader struct {
	client  S3API
	bucket  string
	prefix  string
	baseURL string
}

// NewS3 creates an S3-backed Uploader. Prefix is prepended to all object
// keys; pass "" for no prefix.
func NewS3(client S3API, bucket, prefix, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// key builds the full S3 object key for the given public ID.
func (u *S3Uploader) key(publicID, ext string) string {
	if u.prefix == "" {
		return publicID + ext
	}

	return u.prefix + "/" + publicID + ext
}

// Upload stores the file under <prefix>/<publicID><ext> and returns the
// public URL and object metadata. Auth failures are surfaced with the
// service error code so callers can tell them from transport problems.
func (u *S3Uploader) Upload(ctx context.Context, path, publicID string) (*Upload, error) {
	file, err := os.Open(path) //nolint:gosec // paths come from our own workspace
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	key := u.key(publicID, ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType(ext)),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("s3 put %s: %s: %w", key, apiErr.ErrorCode(), err)
		}

		return nil, fmt.Errorf("s3 put %s: %w", key, err)
	}

	return &Upload{
		SecureURL: u.baseURL + "/" + key,
		PublicID:  publicID,
		Format:    strings.TrimPrefix(ext, "."),
		Bytes:     info.Size(),
	}, nil
}

func contentType(ext string) string {
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
