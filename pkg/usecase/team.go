package usecase

import (
	"context"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"golang.org/x/sync/errgroup"
)

type TeamUseCase struct {
	client *juno.Client
}

func NewTeamUseCase(client *juno.Client) *TeamUseCase {
	return &TeamUseCase{client: client}
}

func (uc *TeamUseCase) List(ctx context.Context) (model.Teams, error) {
	return uc.client.GetTeams(ctx)
}

func (uc *TeamUseCase) Create(ctx context.Context, in *model.TeamInput) (*model.Team, error) {
	return uc.client.CreateTeam(ctx, in)
}

// AddMembers adds users to a team by username
func (uc *TeamUseCase) AddMembers(ctx context.Context, teamID int64, usernames []string) (*model.Team, error) {
	return uc.client.AddTeamMembers(ctx, teamID, &model.MembersInput{Members: usernames})
}

func (uc *TeamUseCase) Delete(ctx context.Context, teamID int64) error {
	return uc.client.DeleteTeam(ctx, teamID)
}

func (uc *TeamUseCase) LinkProject(ctx context.Context, teamID, projectID int64) error {
	return uc.client.LinkTeamProject(ctx, teamID, projectID)
}

func (uc *TeamUseCase) UnlinkProject(ctx context.Context, teamID, projectID int64) error {
	return uc.client.UnlinkTeamProject(ctx, teamID, projectID)
}

// Links returns every team to project link
func (uc *TeamUseCase) Links(ctx context.Context) (model.TeamProjects, error) {
	return uc.client.GetTeamProjects(ctx)
}

// AvailableProjects returns the projects that can still be linked to the team
func (uc *TeamUseCase) AvailableProjects(ctx context.Context, teamID int64) (model.Projects, error) {
	var (
		projects model.Projects
		links    model.TeamProjects
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		projects, err = uc.client.GetProjects(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		links, err = uc.client.GetTeamProjects(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return model.AvailableProjects(projects, links, teamID), nil
}

// NewMemberSearch returns the debounced user search of the team forms
func (uc *TeamUseCase) NewMemberSearch(ctx context.Context, deliver func(SearchResponse[model.Users])) *SearchBox[model.Users] {
	return NewSearchBox(ctx, MemberSearch, uc.client.SearchUsers, deliver)
}
