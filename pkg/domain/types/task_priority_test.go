package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/types"
)

func TestTaskPriority_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority types.TaskPriority
		want     bool
	}{
		{name: "urgent", priority: types.TaskPriorityUrgent, want: true},
		{name: "high", priority: types.TaskPriorityHigh, want: true},
		{name: "medium", priority: types.TaskPriorityMedium, want: true},
		{name: "low", priority: types.TaskPriorityLow, want: true},
		{name: "backlog", priority: types.TaskPriorityBacklog, want: true},
		{name: "lowercase", priority: types.TaskPriority("high"), want: false},
		{name: "empty", priority: types.TaskPriority(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.priority.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.TaskPriority
		wantErr bool
	}{
		{name: "valid urgent", input: "Urgent", want: types.TaskPriorityUrgent},
		{name: "valid backlog", input: "Backlog", want: types.TaskPriorityBacklog},
		{name: "invalid", input: "Critical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseTaskPriority(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
