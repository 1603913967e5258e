package interfaces

import (
	"context"
	"io"
)

// FileStorage stores attachment contents and returns their public URL
type FileStorage interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
