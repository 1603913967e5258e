package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

type ProjectUseCase struct {
	client *juno.Client
	now    func() time.Time
}

func NewProjectUseCase(client *juno.Client, now func() time.Time) *ProjectUseCase {
	return &ProjectUseCase{client: client, now: now}
}

func (uc *ProjectUseCase) List(ctx context.Context) (model.Projects, error) {
	return uc.client.GetProjects(ctx)
}

// Create validates the form before any request is made
func (uc *ProjectUseCase) Create(ctx context.Context, in *model.ProjectInput) (*model.Project, error) {
	return uc.client.CreateProject(ctx, in)
}

func (uc *ProjectUseCase) Delete(ctx context.Context, projectID int64) error {
	return uc.client.DeleteProject(ctx, projectID)
}

// Timeline returns the projects that can be drawn on a Gantt chart
func (uc *ProjectUseCase) Timeline(ctx context.Context) (model.Projects, error) {
	projects, err := uc.client.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	return model.Timeline(projects), nil
}

// StatusCounts returns the number of active and completed projects
func (uc *ProjectUseCase) StatusCounts(ctx context.Context) ([]model.Count, error) {
	projects, err := uc.client.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	return model.CountProjectStatus(projects, uc.now()), nil
}
