package db

import (
	"context"
	"log"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dueDateLayout = "2006-01-02"

type Storage struct {
	conn                  *pgx.Conn
	prepCreateTask        string
	prepGetTask           string
	prepGetTasks          string
	prepUpdateTask        string
	prepDeleteTask        string
	prepCreateUser        string
	prepGetUserByID       string
	prepGetUserByUsername string
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		return nil, err
	}

	s := &Storage{
		conn: conn,
		prepCreateTask: `INSERT INTO tasks (id, user_id, title, description, status, priority, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		prepGetTask: `SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
			FROM tasks WHERE id = $1 AND user_id = $2`,
		prepGetTasks: `SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
			FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`,
		prepUpdateTask: `UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4,
			due_date = $5, updated_at = now() WHERE id = $6 AND user_id = $7 RETURNING updated_at`,
		prepDeleteTask:        `DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		prepCreateUser:        `INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, $4)`,
		prepGetUserByID:       `SELECT id, username, email, password FROM users WHERE id = $1`,
		prepGetUserByUsername: `SELECT id, username, email, password FROM users WHERE username = $1`,
	}
	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(ctx)
}

func dueDateParam(due *string) (*time.Time, error) {
	if due == nil || *due == "" {
		return nil, nil
	}
	d, err := time.Parse(dueDateLayout, *due)
	if err != nil {
		return nil, errors.ErrInvalidDueDate
	}
	return &d, nil
}

func dueDateValue(d *time.Time) *string {
	if d == nil {
		return nil
	}
	v := d.Format(dueDateLayout)
	return &v
}

func (s *Storage) scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	var due *time.Time
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &due, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	task.DueDate = dueDateValue(due)
	return task, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	task.ID = uuid.New().String()
	due, err := dueDateParam(task.DueDate)
	if err != nil {
		return err
	}
	stmt, err := s.conn.Prepare(ctx, "create_task", s.prepCreateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание задачи:", err)
		return err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, task.ID, task.UserID, task.Title,
		task.Description, task.Status, task.Priority, due)
	if err := row.Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		return err
	}
	log.Println("[SUCCESS] Задача успешно создана:", task.ID)
	return nil
}

func (s *Storage) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_task", s.prepGetTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение задачи:", err)
		return nil, err
	}
	task, err := s.scanTask(s.conn.QueryRow(ctx, stmt.Name, taskID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			log.Println("[ERROR] Задача не найдена:", taskID)
			return nil, errors.ErrNotFound
		}
		log.Println("[ERROR] Ошибка при получении задачи:", err)
		return nil, err
	}
	return task, nil
}

func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_tasks", s.prepGetTasks)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение всех задач:", err)
		return nil, err
	}
	rows, err := s.conn.Query(ctx, stmt.Name, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			log.Println("[ERROR] Ошибка при чтении задач:", err)
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	log.Println("[SUCCESS] Получено задач:", len(tasks))
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, userID, taskID string, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	due, err := dueDateParam(task.DueDate)
	if err != nil {
		return err
	}
	stmt, err := s.conn.Prepare(ctx, "update_task", s.prepUpdateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на обновление задачи:", err)
		return err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, task.Title, task.Description, task.Status,
		task.Priority, due, taskID, userID)
	if err := row.Scan(&task.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			log.Println("[ERROR] Задача для обновления не найдена:", taskID)
			return errors.ErrNotFound
		}
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return err
	}
	log.Println("[SUCCESS] Задача успешно обновлена:", taskID)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, userID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "delete_task", s.prepDeleteTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на удаление задачи:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, taskID, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Задача для удаления не найдена:", taskID)
		return errors.ErrNotFound
	}
	log.Println("[SUCCESS] Задача удалена:", taskID)
	return nil
}

func (s *Storage) CreateUser(user *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "create_user", s.prepCreateUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание пользователя:", err)
		return err
	}
	_, err = s.conn.Exec(ctx, stmt.Name, user.ID, user.Username, user.Email, user.Password)
	if err != nil {
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return errors.ErrUserAlreadyExists
	}
	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_id", s.prepGetUserByID)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по ID:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, id)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password); err != nil {
		if err == pgx.ErrNoRows {
			log.Println("[ERROR] Пользователь не найден:", id)
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_username", s.prepGetUserByUsername)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по имени:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, username)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password); err != nil {
		if err == pgx.ErrNoRows {
			log.Println("[ERROR] Пользователь не найден:", username)
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}
