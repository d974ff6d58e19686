package board

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusUpdate struct {
	taskID string
	status string
}

type fakeTaskService struct {
	tasks     []models.Task
	listErr   error
	updateErr error
	listCalls int
	updates   []statusUpdate
}

func (f *fakeTaskService) ListTasks(_ context.Context) ([]models.Task, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	tasks := make([]models.Task, len(f.tasks))
	copy(tasks, f.tasks)
	return tasks, nil
}

func (f *fakeTaskService) UpdateTaskStatus(_ context.Context, taskID, status string) (*models.Task, error) {
	f.updates = append(f.updates, statusUpdate{taskID: taskID, status: status})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Status = status
			f.tasks[i].UpdatedAt = time.Now().UTC()
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, errors.ErrNotFound
}

func boardTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Title: "Первая", Status: "todo", Priority: "high"},
		{ID: "t2", Title: "Вторая", Status: "in_progress", Priority: "medium"},
		{ID: "t3", Title: "Третья", Status: "completed", Priority: "low"},
		{ID: "t4", Title: "Четвёртая", Status: "todo", Priority: "medium"},
		{ID: "t5", Title: "Странная", Status: "archived", Priority: "low"},
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  struct {
			todo     int
			progress int
			complete int
		}
	}{
		{
			name:  "tasks split by exact status",
			tasks: boardTasks(),
			want: struct {
				todo     int
				progress int
				complete int
			}{
				todo:     2,
				progress: 1,
				complete: 1,
			},
		},
		{
			name:  "empty list",
			tasks: []models.Task{},
			want: struct {
				todo     int
				progress int
				complete int
			}{},
		},
		{
			name: "unknown status excluded from all lanes",
			tasks: []models.Task{
				{ID: "t1", Status: "archived"},
				{ID: "t2", Status: "TODO"},
				{ID: "t3", Status: ""},
			},
			want: struct {
				todo     int
				progress int
				complete int
			}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lanes := Partition(tt.tasks)
			assert.Len(t, lanes.Todo, tt.want.todo)
			assert.Len(t, lanes.Progress, tt.want.progress)
			assert.Len(t, lanes.Complete, tt.want.complete)

			total := len(lanes.Todo) + len(lanes.Progress) + len(lanes.Complete)
			known := 0
			for _, task := range tt.tasks {
				if laneStatuses[task.Status] {
					known++
				}
			}
			assert.Equal(t, known, total, "каждая задача с известным статусом ровно в одной колонке")
		})
	}
}

func TestNewBoard(t *testing.T) {
	assert.Nil(t, NewBoard(nil))
	assert.NotNil(t, NewBoard(&fakeTaskService{}))
}

func TestRefresh(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)

	assert.False(t, b.Loaded())
	require.NoError(t, b.Refresh(context.Background()))
	assert.True(t, b.Loaded())
	assert.Len(t, b.Tasks(), 5)
	assert.Len(t, b.Lanes().Todo, 2)
}

func TestRefreshFailureKeepsPreviousTasks(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))

	svc.listErr = errors.ErrInternalServer
	err := b.Refresh(context.Background())

	assert.Error(t, err)
	assert.Equal(t, errors.ErrInternalServer, b.LastError())
	assert.Len(t, b.Tasks(), 5, "последний успешный список остаётся видимым")
}

func TestDragLifecycle(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, StateIdle, b.State())

	require.NoError(t, b.DragStart("t1"))
	assert.Equal(t, StateDragging, b.State())
	assert.Equal(t, "t1", b.DraggedTask().ID)

	b.DragOver(models.StatusInProgress)
	assert.Equal(t, StateDragOver, b.State())
	assert.Equal(t, models.StatusInProgress, b.OverLane())

	b.DragLeave()
	assert.Equal(t, StateDragging, b.State())
	assert.Empty(t, b.OverLane())

	b.DragEnd()
	assert.Equal(t, StateIdle, b.State())
	assert.Empty(t, svc.updates, "отмена жеста не отправляет запросов")
}

func TestDragStartErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(b *Board)
		taskID  string
		want    struct {
			err error
		}
	}{
		{
			name:    "board not loaded",
			prepare: func(b *Board) {},
			taskID:  "t1",
			want: struct {
				err error
			}{
				err: errors.ErrBoardNotReady,
			},
		},
		{
			name: "unknown task",
			prepare: func(b *Board) {
				_ = b.Refresh(context.Background())
			},
			taskID: "ghost",
			want: struct {
				err error
			}{
				err: errors.ErrUnknownTask,
			},
		},
		{
			name: "task outside known lanes is not draggable",
			prepare: func(b *Board) {
				_ = b.Refresh(context.Background())
			},
			taskID: "t5",
			want: struct {
				err error
			}{
				err: errors.ErrUnknownTask,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(&fakeTaskService{tasks: boardTasks()})
			tt.prepare(b)

			err := b.DragStart(tt.taskID)
			assert.Equal(t, tt.want.err, err)
			assert.Equal(t, StateIdle, b.State())
		})
	}
}

func TestDropSameLaneIsNoOp(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))
	listCallsBefore := svc.listCalls

	require.NoError(t, b.DragStart("t1"))
	moved, err := b.Drop(context.Background(), models.StatusTodo)

	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Empty(t, svc.updates, "сброс в ту же колонку не отправляет запрос")
	assert.Equal(t, listCallsBefore, svc.listCalls, "и не перечитывает доску")
	assert.Equal(t, StateIdle, b.State())
	assert.Len(t, b.Lanes().Todo, 2)
}

func TestDropMovesCardAndRefetches(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))
	listCallsBefore := svc.listCalls

	require.NoError(t, b.DragStart("t1"))
	b.DragOver(models.StatusInProgress)
	moved, err := b.Drop(context.Background(), models.StatusInProgress)

	require.NoError(t, err)
	assert.True(t, moved)
	require.Len(t, svc.updates, 1)
	assert.Equal(t, statusUpdate{taskID: "t1", status: "in_progress"}, svc.updates[0])
	assert.Equal(t, listCallsBefore+1, svc.listCalls, "после успеха доска перечитывается целиком")

	lanes := b.Lanes()
	assert.Len(t, lanes.Todo, 1)
	assert.Len(t, lanes.Progress, 2)
	assert.Equal(t, StateIdle, b.State())
}

func TestDropFailureRevertsToLastFetch(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))

	svc.updateErr = errors.ErrInternalServer
	require.NoError(t, b.DragStart("t1"))
	moved, err := b.Drop(context.Background(), models.StatusCompleted)

	assert.Error(t, err)
	assert.False(t, moved)
	assert.Equal(t, errors.ErrInternalServer, b.LastError())

	// Колонки пересчитываются из последнего успешного списка —
	// карточка остаётся в прежней колонке.
	lanes := b.Lanes()
	assert.Len(t, lanes.Todo, 2)
	assert.Len(t, lanes.Complete, 1)
	assert.Equal(t, StateIdle, b.State())
}

func TestDropWithoutDrag(t *testing.T) {
	b := NewBoard(&fakeTaskService{tasks: boardTasks()})
	require.NoError(t, b.Refresh(context.Background()))

	moved, err := b.Drop(context.Background(), models.StatusTodo)
	assert.Equal(t, errors.ErrNoActiveDrag, err)
	assert.False(t, moved)
}

func TestDropOnUnknownLane(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.DragStart("t1"))
	moved, err := b.Drop(context.Background(), "archived")

	assert.Equal(t, errors.ErrInvalidStatus, err)
	assert.False(t, moved)
	assert.Empty(t, svc.updates)
}

func TestDragOverIgnoresUnknownLane(t *testing.T) {
	svc := &fakeTaskService{tasks: boardTasks()}
	b := NewBoard(svc)
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.DragStart("t1"))
	b.DragOver("archived")
	assert.Equal(t, StateDragging, b.State())
	assert.Empty(t, b.OverLane())
}
