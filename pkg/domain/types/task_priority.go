package types

import "fmt"

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	TaskPriorityUrgent  TaskPriority = "Urgent"
	TaskPriorityHigh    TaskPriority = "High"
	TaskPriorityMedium  TaskPriority = "Medium"
	TaskPriorityLow     TaskPriority = "Low"
	TaskPriorityBacklog TaskPriority = "Backlog"
)

// AllTaskPriorities returns all valid priorities from the most to the least urgent
func AllTaskPriorities() []TaskPriority {
	return []TaskPriority{
		TaskPriorityUrgent,
		TaskPriorityHigh,
		TaskPriorityMedium,
		TaskPriorityLow,
		TaskPriorityBacklog,
	}
}

// IsValid checks if the priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityUrgent,
		TaskPriorityHigh,
		TaskPriorityMedium,
		TaskPriorityLow,
		TaskPriorityBacklog:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority
func (p TaskPriority) String() string {
	return string(p)
}

// ParseTaskPriority parses a string into a TaskPriority
func ParseTaskPriority(s string) (TaskPriority, error) {
	priority := TaskPriority(s)
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid task priority: %s", s)
	}
	return priority, nil
}
