package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/usecase"
)

// Assignee is the value of the assignee field. ID 0 means unassigned.
type Assignee struct {
	ID    int64
	Label string
}

// AssigneeOf returns the assignee shown for a task
func AssigneeOf(task *model.Task) Assignee {
	return Assignee{ID: task.AssigneeID(), Label: task.AssigneeName()}
}

// AssigneeField edits the assignee through a username search. Typed text
// is resolved to a user ID on Confirm.
type AssigneeField struct {
	*Field[Assignee]

	mu          sync.Mutex
	suggestions model.Users
	search      *usecase.SearchBox[model.Users]
}

func newAssigneeField(initial Assignee, save SaveFunc[Assignee]) *AssigneeField {
	return &AssigneeField{Field: NewField("assigned_userid", initial, save)}
}

func (a *AssigneeField) enableSearch(ctx context.Context, fetch func(ctx context.Context, q string) (model.Users, error)) {
	a.search = usecase.NewSearchBox(ctx, usecase.AssigneeSearch, fetch, func(r usecase.SearchResponse[model.Users]) {
		if r.Err != nil {
			return
		}
		a.setSuggestions(r.Result)
	})
}

// StartEdit opens the field with an empty search box
func (a *AssigneeField) StartEdit() error {
	if err := a.Field.StartEdit(); err != nil {
		return err
	}
	a.setSuggestions(nil)
	return a.Field.SetTemp(Assignee{})
}

// Type replaces the search text. A previous selection is forgotten.
func (a *AssigneeField) Type(q string) error {
	if err := a.Field.SetTemp(Assignee{Label: q}); err != nil {
		return err
	}
	if a.search != nil {
		a.search.Input(q)
	}
	return nil
}

// SelectUser picks a suggestion. The field stays in edit mode until Confirm.
func (a *AssigneeField) SelectUser(u *model.User) error {
	if err := a.Field.SetTemp(Assignee{ID: u.ID, Label: u.Username}); err != nil {
		return err
	}
	if a.search != nil {
		a.search.Input("")
	}
	return nil
}

// Suggestions returns the users matching the last settled search
func (a *AssigneeField) Suggestions() model.Users {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.suggestions
}

// SetSuggestions replaces the search results, for callers running their own search
func (a *AssigneeField) SetSuggestions(users model.Users) {
	a.setSuggestions(users)
}

func (a *AssigneeField) setSuggestions(users model.Users) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suggestions = users
}

// Confirm resolves the edit buffer to a user and saves it
func (a *AssigneeField) Confirm(ctx context.Context) error {
	if a.Field.State() != Editing {
		return a.Field.Confirm(ctx)
	}
	if err := a.Field.SetTemp(a.resolve(a.Field.Temp())); err != nil {
		return err
	}
	return a.Field.Confirm(ctx)
}

// resolve picks the selected user first, then a numeric ID, then a
// suggestion with the exact username. Anything else unassigns.
func (a *AssigneeField) resolve(temp Assignee) Assignee {
	if temp.ID > 0 {
		return temp
	}

	text := strings.TrimSpace(temp.Label)
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		if id <= 0 {
			return Assignee{}
		}
		return Assignee{ID: id, Label: fmt.Sprintf("User ID: %d", id)}
	}

	if u := a.Suggestions().FindByUsername(text); u != nil {
		return Assignee{ID: u.ID, Label: u.Username}
	}
	return Assignee{}
}

// Flush runs the pending search now
func (a *AssigneeField) Flush() {
	if a.search != nil {
		a.search.Flush()
	}
}

// Close stops the pending search
func (a *AssigneeField) Close() {
	if a.search != nil {
		a.search.Close()
	}
}
