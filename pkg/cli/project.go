package cli

import (
	"context"
	"fmt"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdProjects(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "projects",
		Aliases: []string{"p"},
		Usage:   "Manage projects",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List projects",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					projects, err := uc.Project.List(ctx)
					if err != nil {
						return env.fail(err, "project")
					}
					renderProjects(env.out, projects)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Create a project",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Project description"},
					&cli.StringFlag{Name: "start", Usage: "Start date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					name, err := argText(c, 0, "name")
					if err != nil {
						return err
					}
					start, err := flagDate(c, "start")
					if err != nil {
						return err
					}
					due, err := flagDate(c, "due")
					if err != nil {
						return err
					}

					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					project, err := uc.Project.Create(ctx, &model.ProjectInput{
						Name:        name,
						Description: c.String("description"),
						StartDate:   start,
						DueDate:     due,
					})
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(env.out, "created project %d\n", project.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a project",
				ArgsUsage: "<project-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					projectID, err := argID(c, 0, "project-id")
					if err != nil {
						return err
					}
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					if err := uc.Project.Delete(ctx, projectID); err != nil {
						return env.fail(err, "project")
					}
					_, _ = fmt.Fprintf(env.out, "deleted project %d\n", projectID)
					return nil
				},
			},
			{
				Name:  "timeline",
				Usage: "List projects by start date with their status",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, err := env.useCases(ctx)
					if err != nil {
						return err
					}
					projects, err := uc.Project.Timeline(ctx)
					if err != nil {
						return env.fail(err, "project")
					}
					now := uc.Now()
					t := newTable(env.out, "ID", "NAME", "START", "DUE", "STATUS")
					for _, p := range projects {
						t.row(id(p.ID), p.Name, p.StartDate.String(), p.DueDate.String(), model.ProjectStatus(p, now))
					}
					t.flush()

					counts, err := uc.Project.StatusCounts(ctx)
					if err != nil {
						return env.fail(err, "project")
					}
					renderCounts(env.out, "STATUS", counts)
					return nil
				},
			},
		},
	}
}
