// Package storage uploads attachment files to Google Cloud Storage.
package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// Uploader writes objects into one bucket
type Uploader struct {
	client *gcs.Client
	bucket string
}

// New creates an Uploader. Without options the client uses application
// default credentials.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Uploader, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}
	return NewWithClient(client, bucket), nil
}

// NewWithClient creates an Uploader on an existing client
func NewWithClient(client *gcs.Client, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// EmulatorOptions point the client to a storage emulator without credentials
func EmulatorOptions(endpoint string) []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(strings.TrimRight(endpoint, "/") + "/storage/v1/"),
		option.WithoutAuthentication(),
	}
}

// Upload implements interfaces.FileStorage
func (u *Uploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := u.client.Bucket(u.bucket).Object(name).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", u.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", u.bucket), goerr.V("object", name))
	}

	logging.From(ctx).Info("attachment uploaded", "bucket", u.bucket, "object", name, "size", size)
	return PublicURL(u.bucket, name), nil
}

// Close releases the underlying client
func (u *Uploader) Close() error {
	return u.client.Close()
}

// ObjectName returns a unique object name for a file attached to a task
func ObjectName(taskID int64, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return "attachments/" + strconv.FormatInt(taskID, 10) + "/" + uuid.NewString() + "-" + base
}

// PublicURL returns the public URL of an object
func PublicURL(bucket, name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return publicHost + "/" + bucket + "/" + strings.Join(segments, "/")
}
