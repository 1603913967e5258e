package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cmdDashboard(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the signed in user's tasks and project overview",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			d, err := uc.Dashboard.Load(ctx)
			if err != nil {
				return env.fail(err, "dashboard")
			}

			_, _ = fmt.Fprintf(env.out, "%s %s\n", headerColor.Sprint("Welcome,"), d.User.Username)
			if d.IsNewUser {
				_, _ = fmt.Fprintln(env.out, "You have no tasks or projects yet. Create a project to get started.")
				return nil
			}

			renderCounts(env.out, "PRIORITY", d.PriorityCounts)
			renderCounts(env.out, "PROJECTS", d.ProjectStatus)
			renderTasks(env.out, d.Tasks)
			return nil
		},
	}
}
