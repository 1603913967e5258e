package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/interfaces"
	"github.com/secmon-lab/juno/pkg/service/storage"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage holds CLI flags for attachment uploads
type Storage struct {
	bucket   string
	endpoint string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "attachment-bucket",
			Usage:       "Google Cloud Storage bucket for attachment uploads",
			Category:    "Storage",
			Sources:     cli.EnvVars("JUNO_ATTACHMENT_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-emulator",
			Usage:       "Storage emulator URL. Uploads go there without credentials",
			Category:    "Storage",
			Sources:     cli.EnvVars("JUNO_STORAGE_EMULATOR"),
			Destination: &x.endpoint,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("emulator", x.endpoint),
	)
}

// Configure returns nil storage when no bucket is set. The caller closes
// the returned function.
func (x *Storage) Configure(ctx context.Context) (interfaces.FileStorage, func(), error) {
	if x.bucket == "" {
		return nil, func() {}, nil
	}

	var opts []option.ClientOption
	if x.endpoint != "" {
		opts = storage.EmulatorOptions(x.endpoint)
	}

	uploader, err := storage.New(ctx, x.bucket, opts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize attachment storage", goerr.V("bucket", x.bucket))
	}
	logging.From(ctx).Info("Using attachment storage", "bucket", x.bucket)

	return uploader, func() { _ = uploader.Close() }, nil
}

// Merge fills the bucket from the profile unless given by flag or env
func (x *Storage) Merge(c flagSource, p *Profile) {
	merge(c, "attachment-bucket", &x.bucket, p.Storage.AttachmentBucket)
	merge(c, "storage-emulator", &x.endpoint, p.Storage.Emulator)
}
