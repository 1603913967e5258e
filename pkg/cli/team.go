package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdTeams(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "Manage teams and their projects",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List teams",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					teams, err := uc.Team.List(ctx)
					if err != nil {
						return env.fail(err, "team")
					}
					renderTeams(env.out, teams)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Create a team",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "owner", Usage: "Product owner user ID", Required: true},
					&cli.Int64Flag{Name: "manager", Usage: "Project manager user ID", Required: true},
					&cli.StringSliceFlag{Name: "member", Aliases: []string{"m"}, Usage: "Member username (repeatable)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					name, err := argText(c, 0, "name")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					team, err := uc.Team.Create(ctx, &model.TeamInput{
						DomainName:           name,
						ProductOwnerUserID:   c.Int64("owner"),
						ProjectManagerUserID: c.Int64("manager"),
						Members:              c.StringSlice("member"),
					})
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(env.out, "created team %d\n", team.ID)
					return nil
				},
			},
			{
				Name:      "add-members",
				Usage:     "Add members to a team by username",
				ArgsUsage: "<team-id> <username>...",
				Action: func(ctx context.Context, c *cli.Command) error {
					teamID, err := argID(c, 0, "team-id")
					if err != nil {
						return err
					}
					usernames := c.Args().Slice()[1:]
					if len(usernames) == 0 {
						return goerr.Wrap(errMissingArgument, "argument is required", goerr.V("name", "username"))
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					team, err := uc.Team.AddMembers(ctx, teamID, usernames)
					if err != nil {
						return env.fail(err, "team")
					}
					_, _ = fmt.Fprintf(env.out, "team %d has %d members\n", team.ID, len(team.Members))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a team",
				ArgsUsage: "<team-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					teamID, err := argID(c, 0, "team-id")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					if err := uc.Team.Delete(ctx, teamID); err != nil {
						return env.fail(err, "team")
					}
					_, _ = fmt.Fprintf(env.out, "deleted team %d\n", teamID)
					return nil
				},
			},
			cmdTeamLink(env, "link", "Assign a project to a team"),
			cmdTeamLink(env, "unlink", "Remove a project from a team"),
			{
				Name:  "links",
				Usage: "List team to project assignments",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					links, err := uc.Team.Links(ctx)
					if err != nil {
						return env.fail(err, "team")
					}
					renderLinks(env.out, links)
					return nil
				},
			},
			{
				Name:      "available",
				Usage:     "List projects not yet assigned to a team",
				ArgsUsage: "<team-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					teamID, err := argID(c, 0, "team-id")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					projects, err := uc.Team.AvailableProjects(ctx, teamID)
					if err != nil {
						return env.fail(err, "team")
					}
					renderProjects(env.out, projects)
					return nil
				},
			},
		},
	}
}

func cmdTeamLink(env *environment, name, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<team-id> <project-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			teamID, err := argID(c, 0, "team-id")
			if err != nil {
				return err
			}
			projectID, err := argID(c, 1, "project-id")
			if err != nil {
				return err
			}
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}

			if name == "unlink" {
				err = uc.Team.UnlinkProject(ctx, teamID, projectID)
			} else {
				err = uc.Team.LinkProject(ctx, teamID, projectID)
			}
			if err != nil {
				return env.fail(err, "team")
			}
			_, _ = fmt.Fprintf(env.out, "%sed team %d and project %d\n", name, teamID, projectID)
			return nil
		},
	}
}
