package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
)

func TestTask_TagList(t *testing.T) {
	task := &model.Task{Tags: "frontend, urgent,,  api "}
	gt.Value(t, task.TagList()).Equal([]string{"frontend", "urgent", "api"})

	gt.Array(t, (&model.Task{}).TagList()).Length(0)
}

func TestTask_AssigneeName(t *testing.T) {
	id := int64(7)

	t.Run("embedded user", func(t *testing.T) {
		task := &model.Task{AssignedUserID: &id, Assigned: &model.User{ID: 7, Username: "alice"}}
		gt.Value(t, task.AssigneeName()).Equal("alice")
	})

	t.Run("id only", func(t *testing.T) {
		task := &model.Task{AssignedUserID: &id}
		gt.Value(t, task.AssigneeName()).Equal("User ID: 7")
	})

	t.Run("unassigned", func(t *testing.T) {
		task := &model.Task{}
		gt.Value(t, task.AssigneeName()).Equal("")
		gt.Value(t, task.AssigneeID()).Equal(int64(0))
	})
}

func TestTask_DecodeBackendPayload(t *testing.T) {
	payload := `{
		"id": 12,
		"title": "Fix login",
		"status": "Work In Progress",
		"priority": "Urgent",
		"tags": "auth",
		"start_date": "2024-01-02T00:00:00Z",
		"due_date": null,
		"points": null,
		"project_id": 3,
		"author_userid": 1,
		"assigned_userid": null,
		"author": {"id": 1, "username": "alice"},
		"comment": [{"id": 5, "text": "on it", "task_id": 12, "user_id": 1}]
	}`

	var task model.Task
	gt.NoError(t, json.Unmarshal([]byte(payload), &task)).Required()
	gt.Value(t, task.Status).Equal(types.TaskStatusWorkInProgress)
	gt.Value(t, task.StartDate.String()).Equal("2024-01-02")
	gt.B(t, task.DueDate.IsZero()).True()
	gt.Value(t, task.AssignedUserID).Nil()
	gt.Value(t, task.Author.Username).Equal("alice")
	gt.Array(t, task.Comments).Length(1)
	gt.Value(t, task.TagIDs()).Equal([]string{"12"})
}

func TestDate(t *testing.T) {
	d, err := model.ParseDate("2024-05-06")
	gt.NoError(t, err).Required()
	raw, err := json.Marshal(d)
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal(`"2024-05-06T00:00:00Z"`)

	raw, err = json.Marshal(model.Date{})
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal("null")

	_, err = model.ParseDate("06/05/2024")
	gt.Value(t, err).NotNil()
}

func TestTagIDs_NilValues(t *testing.T) {
	testCases := []struct {
		name  string
		value interface{ TagIDs() []string }
		want  []string
	}{
		{name: "nil task", value: (*model.Task)(nil)},
		{name: "nil user", value: (*model.User)(nil)},
		{name: "nil user search", value: (*model.UserSearchResult)(nil)},
		{name: "null user in list", value: model.Users{nil, {ID: 3}}, want: []string{"3"}},
		{name: "null task in list", value: model.Tasks{{ID: 4}, nil}, want: []string{"4"}},
		{name: "null link in list", value: model.TeamProjects{nil}, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.value.TagIDs()
			if tc.want == nil {
				gt.Bool(t, got == nil).True()
				return
			}
			gt.Value(t, got).Equal(tc.want)
		})
	}
}
