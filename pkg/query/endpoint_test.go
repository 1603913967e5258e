package query_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/query"
)

type ids []string

func (x ids) TagIDs() []string { return x }

func TestEndpoint_URL(t *testing.T) {
	ep := &query.Endpoint{
		Name:   "updateTask",
		Method: "PATCH",
		Path:   "/api/tasks/{task_id}/",
		Query:  []string{"project_id"},
	}

	t.Run("path and query", func(t *testing.T) {
		u, err := ep.URL(query.Params{"task_id": "12", "project_id": "3"})
		gt.NoError(t, err).Required()
		gt.Value(t, u).Equal("/api/tasks/12/?project_id=3")
	})

	t.Run("absent query param is omitted", func(t *testing.T) {
		u, err := ep.URL(query.Params{"task_id": "12"})
		gt.NoError(t, err).Required()
		gt.Value(t, u).Equal("/api/tasks/12/")
	})

	t.Run("missing path param", func(t *testing.T) {
		_, err := ep.URL(query.Params{"project_id": "3"})
		gt.Bool(t, errors.Is(err, query.ErrMissingParam)).True()
	})

	t.Run("values are escaped", func(t *testing.T) {
		search := &query.Endpoint{Name: "search", Path: "/api/search/", Query: []string{"q"}}
		u, err := search.URL(query.Params{"q": "a b&c"})
		gt.NoError(t, err).Required()
		gt.Value(t, u).Equal("/api/search/?q=a+b%26c")
	})

	t.Run("several path params", func(t *testing.T) {
		link := &query.Endpoint{Name: "link", Path: "/api/teams/{team_id}/project/{project_id}"}
		u, err := link.URL(query.Params{"team_id": "1", "project_id": "2"})
		gt.NoError(t, err).Required()
		gt.Value(t, u).Equal("/api/teams/1/project/2")
	})
}

func TestEndpoint_Key(t *testing.T) {
	ep := &query.Endpoint{Name: "getTask"}
	a := ep.Key(query.Params{"task_id": "1", "project_id": "2"})
	b := ep.Key(query.Params{"project_id": "2", "task_id": "1"})
	gt.Value(t, a).Equal(b)
	gt.Value(t, a).Equal("getTask?project_id=2&task_id=1")
	gt.Value(t, ep.Key(nil)).Equal("getTask")
	gt.Value(t, ep.Key(query.Params{"task_id": "3"})).NotEqual(a)
}

func TestTagRules(t *testing.T) {
	p := query.Params{"task_id": "7"}
	result := ids{"1", "2"}

	gt.Value(t, query.ListOf("Task")(p, result)).Equal([]query.Tag{
		{Type: "Task", ID: "1"},
		{Type: "Task", ID: "2"},
		{Type: "Task", ID: query.ListID},
	})
	gt.Value(t, query.ResultOf("User")(p, result)).Equal([]query.Tag{
		{Type: "User", ID: "1"},
		{Type: "User", ID: "2"},
	})
	gt.Value(t, query.ItemOf("Task", "task_id")(p, nil)).Equal([]query.Tag{{Type: "Task", ID: "7"}})
	gt.Array(t, query.ItemOf("Task", "comment_id")(p, nil)).Length(0)
	gt.Value(t, query.CollectionOf("Comment")(p, nil)).Equal([]query.Tag{{Type: "Comment", ID: "LIST"}})

	ep := &query.Endpoint{
		Name:        "deleteTask",
		Method:      "DELETE",
		Invalidates: []query.TagRule{query.ItemOf("Task", "task_id"), query.CollectionOf("Task")},
	}
	gt.Bool(t, ep.IsMutation()).True()
	gt.Value(t, ep.InvalidatedTags(p, nil)).Equal([]query.Tag{
		{Type: "Task", ID: "7"},
		{Type: "Task", ID: "LIST"},
	})
	gt.Value(t, query.ItemTag("Task", 7).String()).Equal("Task:7")
}

func TestRegistry(t *testing.T) {
	a := &query.Endpoint{Name: "getProjects", Method: "GET"}
	b := &query.Endpoint{Name: "createProject", Method: "POST"}

	r, err := query.NewRegistry(a, b)
	gt.NoError(t, err).Required()

	got, err := r.Get("createProject")
	gt.NoError(t, err).Required()
	gt.Value(t, got).Equal(b)
	gt.Array(t, r.All()).Length(2)

	_, err = r.Get("nope")
	gt.Bool(t, errors.Is(err, query.ErrUnknownEndpoint)).True()

	_, err = query.NewRegistry(a, b, &query.Endpoint{Name: "getProjects"})
	gt.Bool(t, errors.Is(err, query.ErrDuplicateEndpoint)).True()
}

func TestEndpoint_ParamNames(t *testing.T) {
	ep := &query.Endpoint{
		Name:  "deleteComment",
		Path:  "/api/tasks/{task_id}/comments/{comment_id}/",
		Query: []string{"project_id"},
	}
	gt.Value(t, ep.ParamNames()).Equal([]string{"task_id", "comment_id", "project_id"})
	gt.Array(t, (&query.Endpoint{Path: "/api/projects/"}).ParamNames()).Length(0)
}
