package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errResp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnprocessableEntity:
		if len(errResp.Fields) > 0 {
			return fmt.Errorf("%w: %v", errors.ErrValidationFailed, errResp.Fields)
		}
		return errors.ErrValidationFailed
	case http.StatusConflict:
		return errors.ErrConflict
	default:
		if errResp.Error != "" {
			return fmt.Errorf("%w: %s", errors.ErrInternalServer, errResp.Error)
		}
		return errors.ErrInternalServer
	}
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/users/register", req, nil)
}

// Login сохраняет полученный токен для последующих запросов.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/users/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task := &models.Task{}
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID, nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{}
	if err := c.do(ctx, http.MethodPost, "/tasks", req, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, req models.UpdateTaskRequest) (*models.Task, error) {
	task := &models.Task{}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+taskID, req, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus отправляет только {status} — запрос, который делает
// доска при перетаскивании карточки.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	return c.UpdateTask(ctx, taskID, models.UpdateTaskRequest{Status: &status})
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}
