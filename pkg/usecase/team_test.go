package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
)

func TestTeam_AvailableProjects(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	owner := f.srv.AddUser(model.User{Username: "alice"})
	p1 := f.srv.AddProject(model.Project{Name: "Alpha"})
	p2 := f.srv.AddProject(model.Project{Name: "Beta"})

	team, err := f.uc.Team.Create(ctx, &model.TeamInput{
		DomainName:           "platform",
		ProductOwnerUserID:   owner.ID,
		ProjectManagerUserID: owner.ID,
	})
	gt.NoError(t, err).Required()

	available, err := f.uc.Team.AvailableProjects(ctx, team.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, available).Length(2)

	gt.NoError(t, f.uc.Team.LinkProject(ctx, team.ID, p1.ID)).Required()

	available, err = f.uc.Team.AvailableProjects(ctx, team.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, available).Length(1)
	gt.Value(t, available[0].ID).Equal(p2.ID)

	team, err = f.uc.Team.AddMembers(ctx, team.ID, []string{"alice"})
	gt.NoError(t, err).Required()
	gt.Value(t, team.Members).Equal([]int64{owner.ID})
}
