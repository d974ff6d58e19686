package board

import (
	"sort"
	"strings"
	"time"

	"taskboard/internal/domain/models"
)

const recentLimit = 5

type Dashboard struct {
	Total      int
	InProgress int
	Completed  int
	DueToday   int
	Recent     []models.Task
}

// Summarize строит сводку по тому же списку задач, что и доска.
// Сравнение сроков — строковое по локальной дате, компонент времени
// после 'T' отбрасывается.
func Summarize(tasks []models.Task, today time.Time) Dashboard {
	todayStr := today.Format("2006-01-02")

	d := Dashboard{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusInProgress:
			d.InProgress++
		case models.StatusCompleted:
			d.Completed++
		}
		if dueOn(task, todayStr) {
			d.DueToday++
		}
	}
	d.Recent = RecentTasks(tasks, recentLimit)
	return d
}

func dueOn(task models.Task, dateStr string) bool {
	if task.DueDate == nil || *task.DueDate == "" {
		return false
	}
	due := *task.DueDate
	if idx := strings.Index(due, "T"); idx > 0 {
		due = due[:idx]
	}
	return due == dateStr
}

// RecentTasks — n последних задач по updated_at (или created_at,
// если задача ни разу не обновлялась), по убыванию.
func RecentTasks(tasks []models.Task, n int) []models.Task {
	recent := make([]models.Task, len(tasks))
	copy(recent, tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return lastActivity(recent[i]).After(lastActivity(recent[j]))
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

func lastActivity(task models.Task) time.Time {
	if !task.UpdatedAt.IsZero() {
		return task.UpdatedAt
	}
	return task.CreatedAt
}
