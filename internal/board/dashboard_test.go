package board

import (
	"fmt"
	"testing"
	"time"

	"taskboard/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	today := time.Date(2026, 8, 29, 14, 30, 0, 0, time.Local)
	dueDateOnly := "2026-08-29"
	dueWithTime := "2026-08-29T23:59:00"
	dueTomorrow := "2026-08-30"

	tests := []struct {
		name  string
		tasks []models.Task
		want  struct {
			total      int
			inProgress int
			completed  int
			dueToday   int
		}
	}{
		{
			name:  "empty list",
			tasks: []models.Task{},
			want: struct {
				total      int
				inProgress int
				completed  int
				dueToday   int
			}{},
		},
		{
			name: "counts by status",
			tasks: []models.Task{
				{ID: "t1", Status: "todo"},
				{ID: "t2", Status: "in_progress"},
				{ID: "t3", Status: "in_progress"},
				{ID: "t4", Status: "completed"},
			},
			want: struct {
				total      int
				inProgress int
				completed  int
				dueToday   int
			}{
				total:      4,
				inProgress: 2,
				completed:  1,
			},
		},
		{
			name: "due today with and without time component",
			tasks: []models.Task{
				{ID: "t1", Status: "todo", DueDate: &dueDateOnly},
				{ID: "t2", Status: "todo", DueDate: &dueWithTime},
				{ID: "t3", Status: "todo", DueDate: &dueTomorrow},
				{ID: "t4", Status: "todo"},
			},
			want: struct {
				total      int
				inProgress int
				completed  int
				dueToday   int
			}{
				total:    4,
				dueToday: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Summarize(tt.tasks, today)
			assert.Equal(t, tt.want.total, d.Total)
			assert.Equal(t, tt.want.inProgress, d.InProgress)
			assert.Equal(t, tt.want.completed, d.Completed)
			assert.Equal(t, tt.want.dueToday, d.DueToday)
		})
	}
}

func TestRecentTasks(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tasks := make([]models.Task, 0, 7)
	for i := 0; i < 7; i++ {
		tasks = append(tasks, models.Task{
			ID:        fmt.Sprintf("t%d", i),
			Title:     fmt.Sprintf("Задача %d", i),
			Status:    "todo",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	recent := RecentTasks(tasks, 5)

	assert.Len(t, recent, 5)
	assert.Equal(t, "t6", recent[0].ID)
	assert.Equal(t, "t2", recent[4].ID)
}

func TestRecentTasksFallsBackToCreatedAt(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{ID: "old", CreatedAt: base, UpdatedAt: base},
		{ID: "neverUpdated", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "touched", CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
	}

	recent := RecentTasks(tasks, 5)

	assert.Len(t, recent, 3)
	assert.Equal(t, "neverUpdated", recent[0].ID)
	assert.Equal(t, "touched", recent[1].ID)
	assert.Equal(t, "old", recent[2].ID)
}

func TestSummarizeRecentLimit(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tasks := make([]models.Task, 0, 10)
	for i := 0; i < 10; i++ {
		tasks = append(tasks, models.Task{
			ID:        fmt.Sprintf("t%d", i),
			Status:    "todo",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	d := Summarize(tasks, base)
	assert.Len(t, d.Recent, 5)
	assert.Equal(t, "t9", d.Recent[0].ID)
}
