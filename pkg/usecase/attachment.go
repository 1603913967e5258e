package usecase

import (
	"context"
	"io"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/interfaces"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/service/storage"
)

type AttachmentUseCase struct {
	client  *juno.Client
	session *SessionUseCase
	storage interfaces.FileStorage
}

func NewAttachmentUseCase(client *juno.Client, session *SessionUseCase, storage interfaces.FileStorage) *AttachmentUseCase {
	return &AttachmentUseCase{client: client, session: session, storage: storage}
}

func (uc *AttachmentUseCase) List(ctx context.Context, taskID int64) (model.Attachments, error) {
	return uc.client.GetAttachments(ctx, taskID)
}

// Create registers an already hosted file as the signed in user
func (uc *AttachmentUseCase) Create(ctx context.Context, taskID int64, in *model.AttachmentInput) (*model.Attachment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := uc.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return uc.client.CreateAttachment(ctx, taskID, user.ID, in)
}

// Upload stores the file contents and registers the resulting URL
func (uc *AttachmentUseCase) Upload(ctx context.Context, taskID int64, fileName, contentType string, r io.Reader) (*model.Attachment, error) {
	if uc.storage == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "cannot upload attachment", goerr.V(TaskIDKey, taskID))
	}

	// resolve the user first so nothing is uploaded for anonymous sessions
	user, err := uc.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.Upload(ctx, storage.ObjectName(taskID, fileName), contentType, r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload attachment", goerr.V(TaskIDKey, taskID))
	}

	return uc.client.CreateAttachment(ctx, taskID, user.ID, &model.AttachmentInput{
		FileURL:  url,
		FileName: path.Base(fileName),
	})
}
