package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/cli"
	"github.com/secmon-lab/juno/pkg/cli/config"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/service/juno/junotest"
	"github.com/secmon-lab/juno/pkg/usecase"
)

func runCLI(t *testing.T, srv *junotest.Server, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	argv := []string{"juno", "--log-output", filepath.Join(t.TempDir(), "juno.log")}
	if srv != nil {
		argv = append(argv, "--api-base-url", srv.URL)
	}
	argv = append(argv, args...)

	err := cli.RunForTest(context.Background(), argv, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestRun_Endpoints(t *testing.T) {
	out, err := runCLI(t, nil, "", "endpoints")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("updateTask")
	gt.String(t, out).Contains("Task:{task_id}")
	gt.String(t, out).Contains("Task:LIST")
}

func TestRun_ProjectsCreateAndList(t *testing.T) {
	srv := junotest.New(t)

	out, err := runCLI(t, srv, "", "projects", "create", "--description", "First", "--start", "2024-01-01", "--due", "2024-06-30", "Alpha")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("created project")

	out, err = runCLI(t, srv, "", "projects", "list")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Alpha")
	gt.String(t, out).Contains("2024-06-30")
}

func TestRun_ProjectCreateWithoutDescription(t *testing.T) {
	srv := junotest.New(t)

	_, err := runCLI(t, srv, "", "projects", "create", "--start", "2024-01-01", "--due", "2024-06-30", "Alpha")
	gt.Bool(t, errors.Is(err, model.ErrMissingRequired)).True()
	gt.Number(t, srv.TotalCalls()).Equal(0)
}

func TestRun_TaskNotFound(t *testing.T) {
	srv := junotest.New(t)

	out, err := runCLI(t, srv, "", "tasks", "get", "99")
	gt.Bool(t, juno.IsNotFound(err)).True()
	gt.String(t, out).Contains("task not found")
}

func TestRun_TaskEdit(t *testing.T) {
	srv := junotest.New(t)
	alice := srv.AddUser(model.User{Username: "alice"})
	bob := srv.AddUser(model.User{Username: "bob"})
	project := srv.AddProject(model.Project{Name: "Alpha"})
	task := srv.AddTask(model.Task{Title: "Write docs", ProjectID: project.ID, AuthorUserID: alice.ID})

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, got *model.Task)
	}{
		{
			name: "priority",
			args: []string{"--priority", "High"},
			check: func(t *testing.T, got *model.Task) {
				gt.Value(t, got.Priority).Equal(types.TaskPriorityHigh)
				gt.Value(t, got.Title).Equal("Write docs")
			},
		},
		{
			name: "assignee by username",
			args: []string{"--assignee", "bob"},
			check: func(t *testing.T, got *model.Task) {
				gt.Number(t, got.AssigneeID()).Equal(bob.ID)
				gt.Value(t, got.Priority).Equal(types.TaskPriorityHigh)
			},
		},
		{
			name: "unassign",
			args: []string{"--assignee", ""},
			check: func(t *testing.T, got *model.Task) {
				gt.Value(t, got.AssignedUserID).Nil()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"tasks", "edit"}, tt.args...)
			args = append(args, id(task.ID))
			out, err := runCLI(t, srv, "", args...)
			gt.NoError(t, err).Required()
			gt.String(t, out).Contains("saved task")
			tt.check(t, srv.Task(task.ID))
		})
	}
}

func TestRun_TaskEditRejectsUnknownStatus(t *testing.T) {
	srv := junotest.New(t)
	project := srv.AddProject(model.Project{Name: "Alpha"})
	task := srv.AddTask(model.Task{Title: "Write docs", ProjectID: project.ID})

	_, err := runCLI(t, srv, "", "tasks", "edit", "--status", "Blocked", id(task.ID))
	gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	gt.Number(t, srv.Calls(juno.UpdateTask)).Equal(0)
}

func TestRun_SearchInteractive(t *testing.T) {
	srv := junotest.New(t)
	srv.AddProject(model.Project{Name: "Apollo"})

	out, err := runCLI(t, srv, "a\nap\napo\n", "search", "-i")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains(`results for "apo"`)
	gt.String(t, out).Contains("Apollo")
	gt.Number(t, srv.Calls(juno.Search)).Equal(1)
}

func TestRun_SearchShortQuery(t *testing.T) {
	srv := junotest.New(t)

	out, err := runCLI(t, srv, "", "search", "ap")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("no results")
	gt.Number(t, srv.Calls(juno.Search)).Equal(0)
}

func TestRun_WhoamiAnonymous(t *testing.T) {
	srv := junotest.New(t)

	_, err := runCLI(t, srv, "", "whoami")
	gt.Bool(t, errors.Is(err, usecase.ErrNotSignedIn)).True()
}

func TestRun_ProfileSuppliesBaseURL(t *testing.T) {
	srv := junotest.New(t)
	srv.AddProject(model.Project{Name: "From profile"})

	path := filepath.Join(t.TempDir(), "juno.toml")
	gt.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \""+srv.URL+"\"\n"), 0o600)).Required()

	var out bytes.Buffer
	err := cli.RunForTest(context.Background(), []string{
		"juno", "--log-output", filepath.Join(t.TempDir(), "juno.log"), "--config", path, "projects", "list",
	}, strings.NewReader(""), &out)
	gt.NoError(t, err).Required()
	gt.String(t, out.String()).Contains("From profile")
}

func TestRun_MissingProfile(t *testing.T) {
	_, err := runCLI(t, nil, "", "--config", filepath.Join(t.TempDir(), "absent.toml"), "endpoints")
	gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
