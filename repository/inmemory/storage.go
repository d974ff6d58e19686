package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/google/uuid"
)

type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
	}
}

func (s *Storage) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errors.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = uuid.New().String()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) GetTask(_ context.Context, userID, taskID string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, exists := s.tasks[taskID]
	if !exists || task.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return &task, nil
}

func (s *Storage) GetTasks(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *Storage) UpdateTask(_ context.Context, userID, taskID string, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, exists := s.tasks[taskID]
	if !exists || existing.UserID != userID {
		return errors.ErrNotFound
	}
	task.ID = taskID
	task.UserID = existing.UserID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	s.tasks[taskID] = *task
	return nil
}

func (s *Storage) DeleteTask(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, exists := s.tasks[taskID]
	if !exists || task.UserID != userID {
		return errors.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}
