package usecase

import (
	"context"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

type CommentUseCase struct {
	client  *juno.Client
	session *SessionUseCase
}

func NewCommentUseCase(client *juno.Client, session *SessionUseCase) *CommentUseCase {
	return &CommentUseCase{client: client, session: session}
}

func (uc *CommentUseCase) List(ctx context.Context, taskID int64) (model.Comments, error) {
	return uc.client.GetComments(ctx, taskID)
}

// Create posts a comment as the signed in user
func (uc *CommentUseCase) Create(ctx context.Context, taskID int64, text string) (*model.Comment, error) {
	in := &model.CommentInput{Text: text}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := uc.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return uc.client.CreateComment(ctx, taskID, user.ID, in)
}

func (uc *CommentUseCase) Delete(ctx context.Context, taskID, commentID int64) error {
	return uc.client.DeleteComment(ctx, taskID, commentID)
}
