package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
)

// RunForTest runs the app with the given stdin and a shared output for stdout and stderr
func RunForTest(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	color.NoColor = true
	return run(ctx, args, "test", in, out, out)
}
