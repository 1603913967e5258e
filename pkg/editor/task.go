package editor

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
)

// TaskUpdater saves the editable payload of a task
type TaskUpdater interface {
	UpdateTask(ctx context.Context, taskID, projectID int64, u *model.TaskUpdate) (*model.Task, error)
}

// TaskEditor binds the editable fields of a task. Confirming any field
// sends the whole payload built from the displayed values.
type TaskEditor struct {
	taskID    int64
	projectID int64
	updater   TaskUpdater

	Title       *Field[string]
	Description *Field[string]
	Status      *Field[types.TaskStatus]
	Priority    *Field[types.TaskPriority]
	DueDate     *Field[model.Date]
	Assignee    *AssigneeField
}

// TaskEditorOption configures a TaskEditor
type TaskEditorOption func(*TaskEditor)

// WithUserSearch feeds the assignee field from a debounced user search
func WithUserSearch(ctx context.Context, fetch func(ctx context.Context, q string) (model.Users, error)) TaskEditorOption {
	return func(e *TaskEditor) {
		e.Assignee.enableSearch(ctx, fetch)
	}
}

func saveTask[T any](e *TaskEditor) SaveFunc[T] {
	return func(ctx context.Context, _ T) error {
		_, err := e.updater.UpdateTask(ctx, e.taskID, e.projectID, e.Payload())
		return err
	}
}

func NewTaskEditor(task *model.Task, updater TaskUpdater, opts ...TaskEditorOption) *TaskEditor {
	e := &TaskEditor{
		taskID:    task.ID,
		projectID: task.ProjectID,
		updater:   updater,
	}

	e.Title = NewField("title", task.Title, saveTask[string](e),
		WithValidator(func(s string) error {
			in := model.TaskUpdate{Title: s, Status: types.TaskStatusToDo, Priority: types.TaskPriorityBacklog}
			return in.Validate()
		}))
	e.Description = NewField("description", task.Description, saveTask[string](e))
	e.Status = NewField("status", task.Status, saveTask[types.TaskStatus](e),
		WithValidator(func(s types.TaskStatus) error {
			if !s.IsValid() {
				return goerr.Wrap(model.ErrInvalidValue, "unknown status", goerr.V(model.FieldKey, "status"), goerr.V(model.ValueKey, s))
			}
			return nil
		}))
	e.Priority = NewField("priority", task.Priority, saveTask[types.TaskPriority](e),
		WithValidator(func(p types.TaskPriority) error {
			if !p.IsValid() {
				return goerr.Wrap(model.ErrInvalidValue, "unknown priority", goerr.V(model.FieldKey, "priority"), goerr.V(model.ValueKey, p))
			}
			return nil
		}))
	e.DueDate = NewField("due_date", task.DueDate, saveTask[model.Date](e))
	e.Assignee = newAssigneeField(AssigneeOf(task), saveTask[Assignee](e))

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Payload builds the update from the displayed values
func (e *TaskEditor) Payload() *model.TaskUpdate {
	u := &model.TaskUpdate{
		Title:       e.Title.Value(),
		Description: e.Description.Value(),
		Status:      e.Status.Value(),
		Priority:    e.Priority.Value(),
		DueDate:     e.DueDate.Value(),
	}
	if id := e.Assignee.Value().ID; id > 0 {
		u.AssignedUserID = &id
	}
	return u
}

// Refresh takes a task fetched from the server
func (e *TaskEditor) Refresh(task *model.Task) {
	e.Title.Sync(task.Title)
	e.Description.Sync(task.Description)
	e.Status.Sync(task.Status)
	e.Priority.Sync(task.Priority)
	e.DueDate.Sync(task.DueDate)
	e.Assignee.Sync(AssigneeOf(task))
}

// Close releases the assignee search
func (e *TaskEditor) Close() {
	e.Assignee.Close()
}
