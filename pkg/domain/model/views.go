package model

import (
	"sort"
	"time"

	"github.com/secmon-lab/juno/pkg/domain/types"
)

// Project status labels shown on the dashboard
const (
	ProjectStatusActive    = "Active"
	ProjectStatusCompleted = "Completed"
)

// Count is one bar of a dashboard chart
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilterByPriority returns the tasks with priority p, keeping their order
func FilterByPriority(tasks Tasks, p types.TaskPriority) Tasks {
	filtered := Tasks{}
	for _, t := range tasks {
		if t.Priority == p {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CountByPriority returns the number of tasks per priority in enum order.
// Priorities without tasks are omitted.
func CountByPriority(tasks Tasks) []Count {
	counts := make(map[types.TaskPriority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}

	var result []Count
	for _, p := range types.AllTaskPriorities() {
		if n := counts[p]; n > 0 {
			result = append(result, Count{Name: p.String(), Count: n})
		}
	}
	return result
}

// ProjectStatus labels a project by comparing its due date with now
func ProjectStatus(p *Project, now time.Time) string {
	if !p.DueDate.IsZero() && p.DueDate.Before(now) {
		return ProjectStatusCompleted
	}
	return ProjectStatusActive
}

// CountProjectStatus returns the Active and Completed project counts.
// Labels without projects are omitted.
func CountProjectStatus(projects Projects, now time.Time) []Count {
	counts := make(map[string]int)
	for _, p := range projects {
		counts[ProjectStatus(p, now)]++
	}

	var result []Count
	for _, label := range []string{ProjectStatusActive, ProjectStatusCompleted} {
		if n := counts[label]; n > 0 {
			result = append(result, Count{Name: label, Count: n})
		}
	}
	return result
}

// StatusColumn is one column of the task board
type StatusColumn struct {
	Status types.TaskStatus
	Tasks  Tasks
}

// GroupByStatus returns one board column per status, in status order.
// Tasks with an unknown status are dropped.
func GroupByStatus(tasks Tasks) []StatusColumn {
	statuses := types.AllTaskStatuses()
	columns := make([]StatusColumn, len(statuses))
	index := make(map[types.TaskStatus]int, len(statuses))
	for i, s := range statuses {
		columns[i] = StatusColumn{Status: s, Tasks: Tasks{}}
		index[s] = i
	}

	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			columns[i].Tasks = append(columns[i].Tasks, t)
		}
	}
	return columns
}

// StatusSummary is the header of the task list view
type StatusSummary struct {
	Total       int
	Completed   int
	InProgress  int
	UnderReview int
}

// SummarizeStatus counts tasks by the states shown in the list header
func SummarizeStatus(tasks Tasks) StatusSummary {
	summary := StatusSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case types.TaskStatusCompleted:
			summary.Completed++
		case types.TaskStatusWorkInProgress:
			summary.InProgress++
		case types.TaskStatusUnderReview:
			summary.UnderReview++
		}
	}
	return summary
}

// Timeline returns the projects that have both dates, ordered by start date
func Timeline(projects Projects) Projects {
	result := Projects{}
	for _, p := range projects {
		if !p.StartDate.IsZero() && !p.DueDate.IsZero() {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate.Time)
	})
	return result
}

// AvailableProjects returns the projects that are not yet linked to the team
func AvailableProjects(projects Projects, links TeamProjects, teamID int64) Projects {
	linked := links.ProjectIDs(teamID)
	result := Projects{}
	for _, p := range projects {
		if _, ok := linked[p.ID]; !ok {
			result = append(result, p)
		}
	}
	return result
}
