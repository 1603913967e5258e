package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

func TestTask_ListByPriority(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.srv.AddUser(model.User{Username: "alice"})
	for _, p := range []types.TaskPriority{
		types.TaskPriorityHigh,
		types.TaskPriorityLow,
		types.TaskPriorityHigh,
		types.TaskPriorityUrgent,
	} {
		f.srv.AddTask(model.Task{Title: string(p), Priority: p, AuthorUserID: alice.ID})
	}

	tasks, err := f.uc.Task.ListByPriority(ctx, alice.ID, types.TaskPriorityHigh)
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(2)

	_, err = f.uc.Task.ListByPriority(ctx, alice.ID, types.TaskPriority("Someday"))
	gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	gt.Number(t, f.srv.Calls(juno.GetTasksByUser)).Equal(1)
}

func TestTask_CreateUsesSignedInAuthor(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	project := f.srv.AddProject(model.Project{Name: "Alpha"})

	user, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.NoError(t, err).Required()

	task, err := f.uc.Task.Create(ctx, &model.TaskInput{
		Title:          "Write docs",
		StartDate:      date(t, "2024-01-01"),
		DueDate:        date(t, "2024-01-31"),
		AssignedUserID: user.ID,
		ProjectID:      project.ID,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, task.AuthorUserID).Equal(user.ID)
	gt.Value(t, task.Status).Equal(types.TaskStatusToDo)
	gt.Value(t, task.Priority).Equal(types.TaskPriorityBacklog)
}

func TestTask_CreateWithoutAuthorIsRejected(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Task.Create(ctx, &model.TaskInput{
		Title:          "Write docs",
		StartDate:      date(t, "2024-01-01"),
		DueDate:        date(t, "2024-01-31"),
		AssignedUserID: 1,
		ProjectID:      1,
	})
	gt.Bool(t, errors.Is(err, model.ErrMissingRequired)).True()
	gt.Number(t, f.srv.TotalCalls()).Equal(0)
}

func TestTask_BoardAndSummary(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	project := f.srv.AddProject(model.Project{Name: "Alpha"})
	f.srv.AddTask(model.Task{Title: "a", ProjectID: project.ID})
	done := f.srv.AddTask(model.Task{Title: "b", ProjectID: project.ID})
	f.srv.AddTask(model.Task{Title: "other project", ProjectID: 999})

	_, err := f.uc.Task.UpdateStatus(ctx, done.ID, types.TaskStatusCompleted)
	gt.NoError(t, err).Required()

	columns, err := f.uc.Task.Board(ctx, project.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, columns[0].Tasks).Length(1)
	gt.Array(t, columns[3].Tasks).Length(1)

	summary, err := f.uc.Task.Summary(ctx, project.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.Total).Equal(2)
	gt.Value(t, summary.Completed).Equal(1)
	gt.Number(t, f.srv.Calls(juno.GetTasks)).Equal(1)
}

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	gt.NoError(t, err).Required()
	return d
}
