package board

import (
	"context"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

// TaskService — операции API, которые нужны доске.
type TaskService interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error)
}

type Lanes struct {
	Todo     []models.Task
	Progress []models.Task
	Complete []models.Task
}

type DragState int

const (
	StateIdle DragState = iota
	StateDragging
	StateDragOver
)

var laneStatuses = map[string]bool{
	models.StatusTodo:       true,
	models.StatusInProgress: true,
	models.StatusCompleted:  true,
}

// Partition раскладывает задачи по трём колонкам строго по статусу.
// Задачи с неизвестным статусом не попадают ни в одну колонку.
func Partition(tasks []models.Task) Lanes {
	lanes := Lanes{
		Todo:     []models.Task{},
		Progress: []models.Task{},
		Complete: []models.Task{},
	}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusTodo:
			lanes.Todo = append(lanes.Todo, task)
		case models.StatusInProgress:
			lanes.Progress = append(lanes.Progress, task)
		case models.StatusCompleted:
			lanes.Complete = append(lanes.Complete, task)
		}
	}
	return lanes
}

// Board хранит состояние доски между перерисовками: последний успешно
// загруженный список задач и текущий жест перетаскивания. Колонки всегда
// пересчитываются из списка, локально они не мутируются.
type Board struct {
	svc      TaskService
	tasks    []models.Task
	loaded   bool
	dragged  *models.Task
	overLane string
	lastErr  error
}

func NewBoard(svc TaskService) *Board {
	if svc == nil {
		return nil
	}
	return &Board{svc: svc}
}

// Refresh — единственный способ синхронизации с сервером: полный refetch
// и пересборка колонок. При ошибке прежний список остаётся видимым.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.svc.ListTasks(ctx)
	if err != nil {
		b.lastErr = err
		return err
	}
	b.tasks = tasks
	b.loaded = true
	b.lastErr = nil
	return nil
}

func (b *Board) Loaded() bool { return b.loaded }

func (b *Board) LastError() error { return b.lastErr }

func (b *Board) Tasks() []models.Task { return b.tasks }

func (b *Board) Lanes() Lanes { return Partition(b.tasks) }

func (b *Board) State() DragState {
	switch {
	case b.dragged == nil:
		return StateIdle
	case b.overLane != "":
		return StateDragOver
	default:
		return StateDragging
	}
}

func (b *Board) DraggedTask() *models.Task { return b.dragged }

func (b *Board) OverLane() string { return b.overLane }

func (b *Board) DragStart(taskID string) error {
	if !b.loaded {
		return errors.ErrBoardNotReady
	}
	for i := range b.tasks {
		if b.tasks[i].ID == taskID && laneStatuses[b.tasks[i].Status] {
			task := b.tasks[i]
			b.dragged = &task
			b.overLane = ""
			return nil
		}
	}
	return errors.ErrUnknownTask
}

// DragOver подсвечивает колонку-кандидата. Только визуальный эффект,
// обратим без побочных действий.
func (b *Board) DragOver(status string) {
	if b.dragged == nil || !laneStatuses[status] {
		return
	}
	b.overLane = status
}

func (b *Board) DragLeave() {
	b.overLane = ""
}

// DragEnd отменяет жест без запроса к серверу.
func (b *Board) DragEnd() {
	b.dragged = nil
	b.overLane = ""
}

// Drop завершает перетаскивание над колонкой target. Сброс в ту же колонку —
// no-op без сетевого запроса. Иначе на сервер уходит только {status},
// и при успехе доска полностью перечитывается. При ошибке список не
// трогается: карточка вернётся в прежнюю колонку при следующей отрисовке.
func (b *Board) Drop(ctx context.Context, target string) (bool, error) {
	if b.dragged == nil {
		return false, errors.ErrNoActiveDrag
	}
	dragged := b.dragged
	b.dragged = nil
	b.overLane = ""

	if !laneStatuses[target] {
		return false, errors.ErrInvalidStatus
	}
	if dragged.Status == target {
		return false, nil
	}

	if _, err := b.svc.UpdateTaskStatus(ctx, dragged.ID, target); err != nil {
		b.lastErr = err
		return false, err
	}

	if err := b.Refresh(ctx); err != nil {
		return true, err
	}
	return true, nil
}
