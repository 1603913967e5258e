package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/domain/types"
)

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFilterByPriority(t *testing.T) {
	tasks := model.Tasks{
		{ID: 1, Priority: types.TaskPriorityHigh},
		{ID: 2, Priority: types.TaskPriorityLow},
		{ID: 3, Priority: types.TaskPriorityHigh},
		{ID: 4, Priority: types.TaskPriorityUrgent},
	}

	t.Run("matching priority", func(t *testing.T) {
		got := model.FilterByPriority(tasks, types.TaskPriorityHigh)
		gt.Array(t, got).Length(2)
		gt.Value(t, got[0].ID).Equal(int64(1))
		gt.Value(t, got[1].ID).Equal(int64(3))
	})

	t.Run("no match returns empty list", func(t *testing.T) {
		got := model.FilterByPriority(tasks, types.TaskPriorityBacklog)
		gt.Value(t, got).NotNil()
		gt.Array(t, got).Length(0)
	})
}

func TestCountByPriority(t *testing.T) {
	tasks := model.Tasks{
		{Priority: types.TaskPriorityLow},
		{Priority: types.TaskPriorityUrgent},
		{Priority: types.TaskPriorityLow},
	}

	got := model.CountByPriority(tasks)
	gt.Value(t, got).Equal([]model.Count{
		{Name: "Urgent", Count: 1},
		{Name: "Low", Count: 2},
	})
}

func TestCountProjectStatus(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	projects := model.Projects{
		{ID: 1, DueDate: date("2024-02-01")},
		{ID: 2, DueDate: date("2024-04-01")},
		{ID: 3},
		{ID: 4, DueDate: date("2023-12-31")},
	}

	got := model.CountProjectStatus(projects, now)
	gt.Value(t, got).Equal([]model.Count{
		{Name: model.ProjectStatusActive, Count: 2},
		{Name: model.ProjectStatusCompleted, Count: 2},
	})

	gt.Array(t, model.CountProjectStatus(nil, now)).Length(0)
}

func TestGroupByStatus(t *testing.T) {
	tasks := model.Tasks{
		{ID: 1, Status: types.TaskStatusCompleted},
		{ID: 2, Status: types.TaskStatusToDo},
		{ID: 3, Status: types.TaskStatusToDo},
		{ID: 4, Status: types.TaskStatus("Blocked")},
	}

	columns := model.GroupByStatus(tasks)
	gt.Array(t, columns).Length(4)
	gt.Value(t, columns[0].Status).Equal(types.TaskStatusToDo)
	gt.Array(t, columns[0].Tasks).Length(2)
	gt.Array(t, columns[1].Tasks).Length(0)
	gt.Array(t, columns[2].Tasks).Length(0)
	gt.Array(t, columns[3].Tasks).Length(1)
	gt.Value(t, columns[3].Tasks[0].ID).Equal(int64(1))
}

func TestSummarizeStatus(t *testing.T) {
	tasks := model.Tasks{
		{Status: types.TaskStatusCompleted},
		{Status: types.TaskStatusWorkInProgress},
		{Status: types.TaskStatusWorkInProgress},
		{Status: types.TaskStatusUnderReview},
		{Status: types.TaskStatusToDo},
	}

	gt.Value(t, model.SummarizeStatus(tasks)).Equal(model.StatusSummary{
		Total:       5,
		Completed:   1,
		InProgress:  2,
		UnderReview: 1,
	})
}

func TestTimeline(t *testing.T) {
	projects := model.Projects{
		{ID: 1, StartDate: date("2024-03-01"), DueDate: date("2024-04-01")},
		{ID: 2, StartDate: date("2024-01-01")},
		{ID: 3, StartDate: date("2024-01-15"), DueDate: date("2024-02-01")},
	}

	got := model.Timeline(projects)
	gt.Array(t, got).Length(2)
	gt.Value(t, got[0].ID).Equal(int64(3))
	gt.Value(t, got[1].ID).Equal(int64(1))
}

func TestAvailableProjects(t *testing.T) {
	projects := model.Projects{{ID: 1}, {ID: 2}, {ID: 3}}
	links := model.TeamProjects{
		{TeamID: 10, ProjectID: 1},
		{TeamID: 20, ProjectID: 2},
	}

	got := model.AvailableProjects(projects, links, 10)
	gt.Array(t, got).Length(2)
	gt.Value(t, got[0].ID).Equal(int64(2))
	gt.Value(t, got[1].ID).Equal(int64(3))
}
