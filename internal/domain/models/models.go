package models

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID       string `json:"id" validate:"uuid"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type Task struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	UserID      string    `json:"user_id" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description *string   `json:"description"`
	Status      string    `json:"status" validate:"required,oneof=todo in_progress completed"`
	Priority    string    `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=todo in_progress completed"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress completed"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date,omitempty"`
}
