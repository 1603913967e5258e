package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/usecase"
)

func TestDashboard_Load(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	t.Run("requires sign in", func(t *testing.T) {
		_, err := f.uc.Dashboard.Load(ctx)
		gt.Bool(t, errors.Is(err, usecase.ErrNotSignedIn)).True()
	})

	user, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.NoError(t, err).Required()

	t.Run("new user", func(t *testing.T) {
		d, err := f.uc.Dashboard.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, d.IsNewUser).True()
		gt.Array(t, d.PriorityCounts).Length(0)
	})

	t.Run("with data", func(t *testing.T) {
		f.uc.Client().ResetCache(ctx)
		f.srv.AddProject(model.Project{Name: "done", DueDate: date(t, "2024-01-01")})
		f.srv.AddProject(model.Project{Name: "running", DueDate: date(t, "2024-12-31")})
		f.srv.AddTask(model.Task{Title: "a", Priority: types.TaskPriorityHigh, AuthorUserID: user.ID})
		f.srv.AddTask(model.Task{Title: "b", Priority: types.TaskPriorityHigh, AuthorUserID: user.ID})
		f.srv.AddTask(model.Task{Title: "c", Priority: types.TaskPriorityLow, AuthorUserID: user.ID + 100})

		d, err := f.uc.Dashboard.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, d.IsNewUser).False()
		gt.Value(t, d.PriorityCounts).Equal([]model.Count{{Name: "High", Count: 2}})
		gt.Value(t, d.ProjectStatus).Equal([]model.Count{
			{Name: model.ProjectStatusActive, Count: 1},
			{Name: model.ProjectStatusCompleted, Count: 1},
		})
	})

	t.Run("fetch failure", func(t *testing.T) {
		f.uc.Client().ResetCache(ctx)
		f.srv.FailNext(juno.GetProjects, http.StatusInternalServerError)

		_, err := f.uc.Dashboard.Load(ctx)
		gt.Number(t, juno.StatusCode(err)).Equal(http.StatusInternalServerError)
	})
}
