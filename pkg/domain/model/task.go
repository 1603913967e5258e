package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/secmon-lab/juno/pkg/domain/types"
)

// Task is a unit of work that belongs to exactly one project
type Task struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         types.TaskStatus   `json:"status"`
	Priority       types.TaskPriority `json:"priority"`
	Tags           string             `json:"tags"`
	StartDate      Date               `json:"start_date"`
	DueDate        Date               `json:"due_date"`
	Points         *int               `json:"points"`
	ProjectID      int64              `json:"project_id"`
	AuthorUserID   int64              `json:"author_userid"`
	AssignedUserID *int64             `json:"assigned_userid"`
	Author         *User              `json:"author,omitempty"`
	Assigned       *User              `json:"assigned,omitempty"`
	Comments       Comments           `json:"comment,omitempty"`
	Attachments    Attachments        `json:"attachment,omitempty"`
}

// TagList splits the comma separated tags
func (t *Task) TagList() []string {
	var tags []string
	for _, tag := range strings.Split(t.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// AssigneeID returns the assigned user ID, 0 when unassigned
func (t *Task) AssigneeID() int64 {
	if t.AssignedUserID == nil {
		return 0
	}
	return *t.AssignedUserID
}

// AssigneeName returns the label shown for the assignee
func (t *Task) AssigneeName() string {
	if t.Assigned != nil && t.Assigned.Username != "" {
		return t.Assigned.Username
	}
	if id := t.AssigneeID(); id > 0 {
		return fmt.Sprintf("User ID: %d", id)
	}
	return ""
}

// EditState returns the editable subset of the task
func (t *Task) EditState() TaskUpdate {
	return TaskUpdate{
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		DueDate:        t.DueDate,
		AssignedUserID: t.AssignedUserID,
	}
}

// Tasks is a list of tasks as returned by the API
type Tasks []*Task

// TagIDs returns the identifiers used to tag cached task lists
func (t Tasks) TagIDs() []string {
	ids := make([]string, 0, len(t))
	for _, task := range t {
		if task == nil {
			continue
		}
		ids = append(ids, strconv.FormatInt(task.ID, 10))
	}
	return ids
}

// TagIDs returns the identifier used to tag a single cached task
func (t *Task) TagIDs() []string {
	if t == nil {
		return nil
	}
	return []string{strconv.FormatInt(t.ID, 10)}
}

// TaskInput is the payload of the create task form
type TaskInput struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         types.TaskStatus   `json:"status"`
	Priority       types.TaskPriority `json:"priority"`
	Tags           string             `json:"tags"`
	StartDate      Date               `json:"start_date"`
	DueDate        Date               `json:"due_date"`
	Points         *int               `json:"points,omitempty"`
	AuthorUserID   int64              `json:"author_userid"`
	AssignedUserID int64              `json:"assigned_userid"`
	ProjectID      int64              `json:"project_id"`
}

// WithDefaults fills status and priority the way the create form preselects them
func (in TaskInput) WithDefaults() TaskInput {
	if in.Status == "" {
		in.Status = types.TaskStatusToDo
	}
	if in.Priority == "" {
		in.Priority = types.TaskPriorityBacklog
	}
	return in
}

// Validate checks the required form fields and enum values
func (in *TaskInput) Validate() error {
	if err := requireText("title", in.Title); err != nil {
		return err
	}
	if err := requireID("author_userid", in.AuthorUserID); err != nil {
		return err
	}
	if err := requireID("assigned_userid", in.AssignedUserID); err != nil {
		return err
	}
	if err := requireDate("start_date", in.StartDate); err != nil {
		return err
	}
	if err := requireDate("due_date", in.DueDate); err != nil {
		return err
	}
	if err := requireID("project_id", in.ProjectID); err != nil {
		return err
	}
	if in.Status != "" && !in.Status.IsValid() {
		return invalidValue("status", in.Status)
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return invalidValue("priority", in.Priority)
	}
	return nil
}

// TaskUpdate is the full editable payload sent whenever one task field is saved
type TaskUpdate struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         types.TaskStatus   `json:"status"`
	Priority       types.TaskPriority `json:"priority"`
	DueDate        Date               `json:"due_date"`
	AssignedUserID *int64             `json:"assigned_userid"`
}

// Validate checks the fields the edit modal can break
func (u *TaskUpdate) Validate() error {
	if err := requireText("title", u.Title); err != nil {
		return err
	}
	if !u.Status.IsValid() {
		return invalidValue("status", u.Status)
	}
	if !u.Priority.IsValid() {
		return invalidValue("priority", u.Priority)
	}
	return nil
}

// StatusUpdate is the payload of the drag and drop status change
type StatusUpdate struct {
	Status types.TaskStatus `json:"status"`
}

// Validate checks the target status
func (u *StatusUpdate) Validate() error {
	if !u.Status.IsValid() {
		return invalidValue("status", u.Status)
	}
	return nil
}
