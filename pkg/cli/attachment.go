package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdAttachments(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "attachments",
		Usage: "Manage task attachments",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the attachments of a task",
				ArgsUsage: "<task-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					taskID, err := argID(c, 0, "task-id")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					attachments, err := uc.Attachment.List(ctx, taskID)
					if err != nil {
						return env.fail(err, "task")
					}
					renderAttachments(env.out, attachments)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Register a file that is already hosted",
				ArgsUsage: "<task-id> <file-url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "File name. Defaults to the last URL segment"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					taskID, err := argID(c, 0, "task-id")
					if err != nil {
						return err
					}
					fileURL, err := argText(c, 1, "file-url")
					if err != nil {
						return err
					}
					name := c.String("name")
					if name == "" {
						name = filepath.Base(fileURL)
					}

					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					attachment, err := uc.Attachment.Create(ctx, taskID, &model.AttachmentInput{
						FileURL:  fileURL,
						FileName: name,
					})
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(env.out, "added attachment %d\n", attachment.ID)
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "Upload a local file to the attachment bucket and register it",
				ArgsUsage: "<task-id> <path>",
				Action: func(ctx context.Context, c *cli.Command) error {
					taskID, err := argID(c, 0, "task-id")
					if err != nil {
						return err
					}
					path, err := argText(c, 1, "path")
					if err != nil {
						return err
					}

					// #nosec G304 - path is provided by CLI argument
					f, err := os.Open(path)
					if err != nil {
						return goerr.Wrap(err, "failed to open file", goerr.V("path", path))
					}
					defer safe.Close(ctx, f)

					contentType := mime.TypeByExtension(filepath.Ext(path))
					if contentType == "" {
						contentType = "application/octet-stream"
					}

					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					attachment, err := uc.Attachment.Upload(ctx, taskID, filepath.Base(path), contentType, f)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(env.out, "uploaded %s as attachment %d\n", attachment.FileURL, attachment.ID)
					return nil
				},
			},
		},
	}
}
