package types

import "fmt"

// TaskStatus represents the workflow column of a task
type TaskStatus string

const (
	TaskStatusToDo           TaskStatus = "To Do"
	TaskStatusWorkInProgress TaskStatus = "Work In Progress"
	TaskStatusUnderReview    TaskStatus = "Under Review"
	TaskStatusCompleted      TaskStatus = "Completed"
)

// AllTaskStatuses returns all valid task statuses in board order
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusToDo,
		TaskStatusWorkInProgress,
		TaskStatusUnderReview,
		TaskStatusCompleted,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo,
		TaskStatusWorkInProgress,
		TaskStatusUnderReview,
		TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}
