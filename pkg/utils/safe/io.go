package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/juno/pkg/utils/logging"
)

// Close safely closes an io.Closer and logs any errors.
// It handles nil closers gracefully.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// CloseBody drains what is left of an HTTP response body before closing it,
// so the underlying connection can be reused.
func CloseBody(ctx context.Context, body io.ReadCloser) {
	if body == nil {
		return
	}
	if _, err := io.Copy(io.Discard, io.LimitReader(body, 64<<10)); err != nil {
		logging.From(ctx).Debug("Failed to drain response body", slog.Any("error", err))
	}
	Close(ctx, body)
}
