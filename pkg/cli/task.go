package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/editor"
	"github.com/urfave/cli/v3"
)

func parseStatus(s string) (types.TaskStatus, error) {
	status, err := types.ParseTaskStatus(s)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidValue, "unknown status", goerr.V(model.FieldKey, "status"), goerr.V(model.ValueKey, s))
	}
	return status, nil
}

func parsePriority(s string) (types.TaskPriority, error) {
	p, err := types.ParseTaskPriority(s)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidValue, "unknown priority", goerr.V(model.FieldKey, "priority"), goerr.V(model.ValueKey, s))
	}
	return p, nil
}

func cmdTasks(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"t"},
		Usage:   "Manage tasks",
		Commands: []*cli.Command{
			cmdTaskList(env),
			cmdTaskGet(env),
			cmdTaskCreate(env),
			cmdTaskStatus(env),
			cmdTaskEdit(env),
			cmdTaskDelete(env),
			cmdTaskMine(env),
			cmdTaskPriority(env),
			cmdTaskBoard(env),
		},
	}
}

func cmdTaskList(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the tasks of a project",
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
			tasks, err := uc.Task.List(ctx, projectID)
			if err != nil {
				return env.fail(err, "project")
			}
			renderTasks(env.out, tasks)

			s := model.SummarizeStatus(tasks)
			_, _ = fmt.Fprintf(env.out, "total %d, completed %d, in progress %d, under review %d\n",
				s.Total, s.Completed, s.InProgress, s.UnderReview)
			return nil
		},
	}
}

func cmdTaskGet(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a task",
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
			task, err := uc.Task.Get(ctx, taskID)
			if err != nil {
				return env.fail(err, "task")
			}
			renderTask(env.out, task)
			return nil
		},
	}
}

func cmdTaskCreate(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a task",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "project", Usage: "Project ID", Required: true},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Task description"},
			&cli.StringFlag{Name: "status", Usage: "Status", Value: string(types.TaskStatusToDo)},
			&cli.StringFlag{Name: "priority", Usage: "Priority", Value: string(types.TaskPriorityBacklog)},
			&cli.StringFlag{Name: "tags", Usage: "Comma separated tags"},
			&cli.StringFlag{Name: "start", Usage: "Start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
			&cli.IntFlag{Name: "points", Usage: "Story points"},
			&cli.Int64Flag{Name: "assignee", Usage: "Assigned user ID"},
			&cli.Int64Flag{Name: "author", Usage: "Author user ID. Defaults to the signed in user"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			title, err := argText(c, 0, "title")
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

			in := &model.TaskInput{
				Title:          title,
				Description:    c.String("description"),
				Status:         types.TaskStatus(c.String("status")),
				Priority:       types.TaskPriority(c.String("priority")),
				Tags:           c.String("tags"),
				StartDate:      start,
				DueDate:        due,
				AuthorUserID:   c.Int64("author"),
				AssignedUserID: c.Int64("assignee"),
				ProjectID:      c.Int64("project"),
			}
			if c.IsSet("points") {
				points := c.Int("points")
				in.Points = &points
			}

			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			task, err := uc.Task.Create(ctx, in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(env.out, "created task %d\n", task.ID)
			return nil
		},
	}
}

func cmdTaskStatus(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Move a task to another status column",
		ArgsUsage: "<task-id> <status>",
		Action: func(ctx context.Context, c *cli.Command) error {
			taskID, err := argID(c, 0, "task-id")
			if err != nil {
				return err
			}
			s, err := argText(c, 1, "status")
			if err != nil {
				return err
			}
			st, err := parseStatus(s)
			if err != nil {
				return err
			}

			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			task, err := uc.Task.UpdateStatus(ctx, taskID, st)
			if err != nil {
				return env.fail(err, "task")
			}
			_, _ = fmt.Fprintf(env.out, "task %d is now %s\n", task.ID, status(task.Status))
			return nil
		},
	}
}

// cmdTaskEdit confirms one auto-save field per given flag
func cmdTaskEdit(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit task fields. Each field is saved as soon as it is set",
		ArgsUsage: "<task-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.StringFlag{Name: "description", Usage: "New description"},
			&cli.StringFlag{Name: "status", Usage: "New status"},
			&cli.StringFlag{Name: "priority", Usage: "New priority"},
			&cli.StringFlag{Name: "due", Usage: "New due date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "assignee", Usage: "Username or user ID. Empty unassigns"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			taskID, err := argID(c, 0, "task-id")
			if err != nil {
				return err
			}
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			task, err := uc.Task.Get(ctx, taskID)
			if err != nil {
				return env.fail(err, "task")
			}

			ed := editor.NewTaskEditor(task, uc.Client(), editor.WithUserSearch(ctx, uc.User.Search))
			defer ed.Close()

			if c.IsSet("title") {
				if err := editField(ctx, ed.Title, c.String("title")); err != nil {
					return err
				}
			}
			if c.IsSet("description") {
				if err := editField(ctx, ed.Description, c.String("description")); err != nil {
					return err
				}
			}
			if c.IsSet("status") {
				if err := editField(ctx, ed.Status, types.TaskStatus(c.String("status"))); err != nil {
					return err
				}
			}
			if c.IsSet("priority") {
				if err := editField(ctx, ed.Priority, types.TaskPriority(c.String("priority"))); err != nil {
					return err
				}
			}
			if c.IsSet("due") {
				due, err := flagDate(c, "due")
				if err != nil {
					return err
				}
				if err := editField(ctx, ed.DueDate, due); err != nil {
					return err
				}
			}
			if c.IsSet("assignee") {
				if err := editAssignee(ctx, ed.Assignee, c.String("assignee")); err != nil {
					return err
				}
			}

			updated := task.EditState()
			payload := ed.Payload()
			if updated == *payload {
				_, _ = fmt.Fprintln(env.out, "nothing to change")
				return nil
			}
			_, _ = fmt.Fprintf(env.out, "saved task %d\n", task.ID)
			return nil
		},
	}
}

// taskView applies the displayed editor values to the fetched task
func taskView(task *model.Task, ed *editor.TaskEditor) *model.Task {
	u := ed.Payload()
	view := *task
	view.Title = u.Title
	view.Description = u.Description
	view.Status = u.Status
	view.Priority = u.Priority
	view.DueDate = u.DueDate
	view.AssignedUserID = u.AssignedUserID
	if a := ed.Assignee.Value(); a.ID != task.AssigneeID() {
		view.Assigned = nil
		if a.ID > 0 {
			view.Assigned = &model.User{ID: a.ID, Username: a.Label}
		}
	}
	return &view
}

func editField[T any](ctx context.Context, f *editor.Field[T], v T) error {
	if err := f.StartEdit(); err != nil {
		return err
	}
	if err := f.SetTemp(v); err != nil {
		return err
	}
	return f.Confirm(ctx)
}

func editAssignee(ctx context.Context, f *editor.AssigneeField, q string) error {
	if err := f.StartEdit(); err != nil {
		return err
	}
	if err := f.Type(q); err != nil {
		return err
	}
	f.Flush()
	return f.Confirm(ctx)
}

func cmdTaskDelete(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task",
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
			if err := uc.Task.Delete(ctx, taskID); err != nil {
				return env.fail(err, "task")
			}
			_, _ = fmt.Fprintf(env.out, "deleted task %d\n", taskID)
			return nil
		},
	}
}

func cmdTaskMine(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "mine",
		Usage: "List tasks authored by or assigned to the signed in user",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			user, err := uc.Session.CurrentUser(ctx)
			if err != nil {
				return err
			}
			tasks, err := uc.Task.ListByUser(ctx, user.ID)
			if err != nil {
				return env.fail(err, "task")
			}
			renderTasks(env.out, tasks)
			return nil
		},
	}
}

func cmdTaskPriority(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "priority",
		Usage:     "List the signed in user's tasks with a priority",
		ArgsUsage: "<priority>",
		Action: func(ctx context.Context, c *cli.Command) error {
			s, err := argText(c, 0, "priority")
			if err != nil {
				return err
			}
			p, err := parsePriority(s)
			if err != nil {
				return err
			}

			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			user, err := uc.Session.CurrentUser(ctx)
			if err != nil {
				return err
			}
			tasks, err := uc.Task.ListByPriority(ctx, user.ID, p)
			if err != nil {
				return env.fail(err, "task")
			}
			renderTasks(env.out, tasks)
			return nil
		},
	}
}

func cmdTaskBoard(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "board",
		Usage:     "Show the tasks of a project grouped by status",
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
			columns, err := uc.Task.Board(ctx, projectID)
			if err != nil {
				return env.fail(err, "project")
			}
			renderBoard(env.out, columns)
			return nil
		},
	}
}
