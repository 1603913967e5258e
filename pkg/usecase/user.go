package usecase

import (
	"context"
	"unicode/utf8"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

type UserUseCase struct {
	client *juno.Client
}

func NewUserUseCase(client *juno.Client) *UserUseCase {
	return &UserUseCase{client: client}
}

func (uc *UserUseCase) List(ctx context.Context) (model.Users, error) {
	return uc.client.GetUsers(ctx)
}

// Get returns the user federated with the identity subject
func (uc *UserUseCase) Get(ctx context.Context, sub string) (*model.User, error) {
	return uc.client.GetUser(ctx, sub)
}

// Search looks up users by username. An empty query is not sent.
func (uc *UserUseCase) Search(ctx context.Context, q string) (model.Users, error) {
	if utf8.RuneCountInString(q) < AssigneeSearch.MinLength {
		return model.Users{}, nil
	}
	return uc.client.SearchUsers(ctx, q)
}

// NewAssigneeSearch returns the debounced user search of the assignee field
func (uc *UserUseCase) NewAssigneeSearch(ctx context.Context, deliver func(SearchResponse[model.Users])) *SearchBox[model.Users] {
	return NewSearchBox(ctx, AssigneeSearch, uc.client.SearchUsers, deliver)
}
