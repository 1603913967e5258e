package cli

import (
	"context"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdUsers(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Browse users",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					users, err := uc.User.List(ctx)
					if err != nil {
						return env.fail(err, "user")
					}
					renderUsers(env.out, users)
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "Show the user registered for a Cognito subject",
				ArgsUsage: "<sub>",
				Action: func(ctx context.Context, c *cli.Command) error {
					sub, err := argText(c, 0, "sub")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					user, err := uc.User.Get(ctx, sub)
					if err != nil {
						return env.fail(err, "user")
					}
					renderUsers(env.out, []*model.User{user})
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "Search users by username",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, c *cli.Command) error {
					q, err := argText(c, 0, "query")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					users, err := uc.User.Search(ctx, q)
					if err != nil {
						return env.fail(err, "user")
					}
					renderUsers(env.out, users)
					return nil
				},
			},
		},
	}
}
