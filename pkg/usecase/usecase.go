package usecase

import (
	"time"

	"github.com/secmon-lab/juno/pkg/domain/interfaces"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

type UseCases struct {
	client   *juno.Client
	session  *identity.Session
	verifier interfaces.TokenVerifier
	storage  interfaces.FileStorage
	now      func() time.Time

	Project    *ProjectUseCase
	Task       *TaskUseCase
	Team       *TeamUseCase
	User       *UserUseCase
	Comment    *CommentUseCase
	Attachment *AttachmentUseCase
	Search     *SearchUseCase
	Session    *SessionUseCase
	Dashboard  *DashboardUseCase
}

type Option func(*UseCases)

// WithSession shares the token holder with the API transport
func WithSession(session *identity.Session) Option {
	return func(uc *UseCases) {
		uc.session = session
	}
}

func WithVerifier(verifier interfaces.TokenVerifier) Option {
	return func(uc *UseCases) {
		uc.verifier = verifier
	}
}

// WithFileStorage enables attachment uploads
func WithFileStorage(storage interfaces.FileStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(client *juno.Client, opts ...Option) *UseCases {
	uc := &UseCases{
		client: client,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}
	if uc.session == nil {
		uc.session = identity.NewSession()
	}

	uc.Session = NewSessionUseCase(client, uc.session, uc.verifier)
	uc.Project = NewProjectUseCase(client, uc.now)
	uc.Task = NewTaskUseCase(client, uc.Session)
	uc.Team = NewTeamUseCase(client)
	uc.User = NewUserUseCase(client)
	uc.Comment = NewCommentUseCase(client, uc.Session)
	uc.Attachment = NewAttachmentUseCase(client, uc.Session, uc.storage)
	uc.Search = NewSearchUseCase(client)
	uc.Dashboard = NewDashboardUseCase(client, uc.Session, uc.now)

	return uc
}

// Client returns the API client the use cases share
func (uc *UseCases) Client() *juno.Client {
	return uc.client
}

// Now returns the current time of the configured clock
func (uc *UseCases) Now() time.Time {
	return uc.now()
}
