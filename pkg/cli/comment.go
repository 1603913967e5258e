package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cmdComments(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "Manage task comments",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the comments of a task",
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
					comments, err := uc.Comment.List(ctx, taskID)
					if err != nil {
						return env.fail(err, "task")
					}
					renderComments(env.out, comments)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Comment on a task as the signed in user",
				ArgsUsage: "<task-id> <text>",
				Action: func(ctx context.Context, c *cli.Command) error {
					taskID, err := argID(c, 0, "task-id")
					if err != nil {
						return err
					}
					text, err := argText(c, 1, "text")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					comment, err := uc.Comment.Create(ctx, taskID, text)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(env.out, "added comment %d\n", comment.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a comment",
				ArgsUsage: "<task-id> <comment-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					taskID, err := argID(c, 0, "task-id")
					if err != nil {
						return err
					}
					commentID, err := argID(c, 1, "comment-id")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					if err := uc.Comment.Delete(ctx, taskID, commentID); err != nil {
						return env.fail(err, "comment")
					}
					_, _ = fmt.Fprintf(env.out, "deleted comment %d\n", commentID)
					return nil
				},
			},
		},
	}
}
