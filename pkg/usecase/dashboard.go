package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the home page summary of the signed in user
type Dashboard struct {
	User           *model.User
	Tasks          model.Tasks
	Projects       model.Projects
	PriorityCounts []model.Count
	ProjectStatus  []model.Count
	IsNewUser      bool
}

type DashboardUseCase struct {
	client  *juno.Client
	session *SessionUseCase
	now     func() time.Time
}

func NewDashboardUseCase(client *juno.Client, session *SessionUseCase, now func() time.Time) *DashboardUseCase {
	return &DashboardUseCase{client: client, session: session, now: now}
}

// Load fetches the user's tasks and every project in parallel
func (uc *DashboardUseCase) Load(ctx context.Context) (*Dashboard, error) {
	user, err := uc.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{User: user}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		tasks, err := uc.client.GetTasksByUser(egCtx, user.ID)
		if err != nil {
			return goerr.Wrap(err, "failed to load tasks")
		}
		d.Tasks = tasks
		return nil
	})
	eg.Go(func() error {
		projects, err := uc.client.GetProjects(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to load projects")
		}
		d.Projects = projects
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	d.PriorityCounts = model.CountByPriority(d.Tasks)
	d.ProjectStatus = model.CountProjectStatus(d.Projects, uc.now())
	d.IsNewUser = len(d.Tasks) == 0 && len(d.Projects) == 0
	return d, nil
}
