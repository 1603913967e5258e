package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
)

type TaskUseCase struct {
	client  *juno.Client
	session *SessionUseCase
}

func NewTaskUseCase(client *juno.Client, session *SessionUseCase) *TaskUseCase {
	return &TaskUseCase{client: client, session: session}
}

// List returns the tasks of a project
func (uc *TaskUseCase) List(ctx context.Context, projectID int64) (model.Tasks, error) {
	return uc.client.GetTasks(ctx, projectID)
}

func (uc *TaskUseCase) Get(ctx context.Context, taskID int64) (*model.Task, error) {
	return uc.client.GetTask(ctx, taskID, 0)
}

// ListByUser returns the tasks authored by or assigned to a user
func (uc *TaskUseCase) ListByUser(ctx context.Context, userID int64) (model.Tasks, error) {
	return uc.client.GetTasksByUser(ctx, userID)
}

// ListByPriority returns the user's tasks with the given priority
func (uc *TaskUseCase) ListByPriority(ctx context.Context, userID int64, priority types.TaskPriority) (model.Tasks, error) {
	if !priority.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidValue, "unknown priority", goerr.V(model.FieldKey, "priority"), goerr.V(model.ValueKey, priority))
	}
	tasks, err := uc.client.GetTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return model.FilterByPriority(tasks, priority), nil
}

// Create creates a task. The signed in user becomes the author when none
// is given.
func (uc *TaskUseCase) Create(ctx context.Context, in *model.TaskInput) (*model.Task, error) {
	input := *in
	if input.AuthorUserID == 0 && uc.session.Claims() != nil {
		user, err := uc.session.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		input.AuthorUserID = user.ID
	}
	return uc.client.CreateTask(ctx, &input)
}

func (uc *TaskUseCase) UpdateStatus(ctx context.Context, taskID int64, status types.TaskStatus) (*model.Task, error) {
	return uc.client.UpdateTaskStatus(ctx, taskID, status)
}

// Update saves the full editable payload of a task
func (uc *TaskUseCase) Update(ctx context.Context, task *model.Task, update *model.TaskUpdate) (*model.Task, error) {
	return uc.client.UpdateTask(ctx, task.ID, task.ProjectID, update)
}

func (uc *TaskUseCase) Delete(ctx context.Context, taskID int64) error {
	return uc.client.DeleteTask(ctx, taskID)
}

// Board returns the project's tasks grouped into status columns
func (uc *TaskUseCase) Board(ctx context.Context, projectID int64) ([]model.StatusColumn, error) {
	tasks, err := uc.client.GetTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return model.GroupByStatus(tasks), nil
}

// Summary returns the status counts shown above the task list
func (uc *TaskUseCase) Summary(ctx context.Context, projectID int64) (model.StatusSummary, error) {
	tasks, err := uc.client.GetTasks(ctx, projectID)
	if err != nil {
		return model.StatusSummary{}, err
	}
	return model.SummarizeStatus(tasks), nil
}
