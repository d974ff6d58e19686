package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
}

type TaskRepository interface {
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, userID, taskID string, task *models.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type TaskAPI struct {
	httpSrv  *http.Server
	userRepo UserRepository
	taskRepo TaskRepository
	cfg      *Config
}

func NewTaskAPI(userRepo UserRepository, taskRepo TaskRepository, cfg *Config) *TaskAPI {
	if userRepo == nil || taskRepo == nil {
		return nil
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	httpSrv := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
	}

	api := TaskAPI{
		httpSrv:  &httpSrv,
		userRepo: userRepo,
		taskRepo: taskRepo,
		cfg:      cfg,
	}

	api.configRoutes()

	return &api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" || strings.HasPrefix(api.httpSrv.Addr, ":0") {
		api.httpSrv.Addr = ":8080"
	}

	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.Default()
	router.Use(GzipResponseCompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "использован некорректный HTTP-метод"})
	})

	users := router.Group("/users")
	{
		users.POST("/register", api.register)
		users.POST("/login", api.login)
		users.POST("/logout", api.logout)
		users.GET("/me", api.authMiddleware(), api.me)
	}

	tasks := router.Group("/tasks", api.authMiddleware())
	{
		tasks.GET("", api.getTasks)
		tasks.POST("", api.createTask)
		tasks.GET(":taskID", api.getTask)
		tasks.PUT(":taskID", api.updateTask)
		tasks.DELETE(":taskID", api.deleteTask)
	}

	api.httpSrv.Handler = router
}

func (api *TaskAPI) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": validationErrorFields(err),
		})
		return
	}

	existingUser, _ := api.userRepo.GetUserByUsername(req.Username)
	if existingUser != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": errors.ErrUserAlreadyExists.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	if err := api.userRepo.CreateUser(&user); err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "пользователь успешно создан",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (api *TaskAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": validationErrorFields(err),
		})
		return
	}

	user, err := api.userRepo.GetUserByUsername(req.Username)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	token, err := api.issueToken(user.ID)
	if err != nil {
		log.Println("[ERROR] Не удалось выпустить токен:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.SetCookie(jwtCookieName, token, int(api.cfg.TokenTTL.Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{
		"message": "вход выполнен успешно",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (api *TaskAPI) logout(ctx *gin.Context) {
	ctx.SetCookie(jwtCookieName, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"message": "выход выполнен успешно"})
}

func (api *TaskAPI) me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	user, err := api.userRepo.GetUserByID(userID)
	if err != nil {
		if err == errors.ErrUserNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrUserNotFound.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	tasks, err := api.taskRepo.GetTasks(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	ctx.JSON(http.StatusOK, tasks)
}

func (api *TaskAPI) getTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	task, err := api.taskRepo.GetTask(ctx.Request.Context(), userID, ctx.Param("taskID"))
	if err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": validationErrorFields(err),
		})
		return
	}

	dueDate, err := normalizeDueDate(req.DueDate)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": gin.H{"due_date": errors.ErrInvalidDueDate.Error()},
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	if err := api.taskRepo.CreateTask(ctx.Request.Context(), &task); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// Частичное обновление: nil-поля запроса сохраняют прежние значения.
func (api *TaskAPI) updateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	var req models.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": validationErrorFields(err),
		})
		return
	}

	dueDate, err := normalizeDueDate(req.DueDate)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  errors.ErrValidationFailed.Error(),
			"fields": gin.H{"due_date": errors.ErrInvalidDueDate.Error()},
		})
		return
	}

	taskID := ctx.Param("taskID")
	task, err := api.taskRepo.GetTask(ctx.Request.Context(), userID, taskID)
	if err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = dueDate
	}

	if err := api.taskRepo.UpdateTask(ctx.Request.Context(), userID, taskID, task); err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	if err := api.taskRepo.DeleteTask(ctx.Request.Context(), userID, ctx.Param("taskID")); err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Дата принимается как YYYY-MM-DD либо с компонентом времени после 'T',
// который отбрасывается.
func normalizeDueDate(raw *string) (*string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	datePart := *raw
	if idx := strings.Index(datePart, "T"); idx > 0 {
		datePart = datePart[:idx]
	}
	if _, err := time.Parse("2006-01-02", datePart); err != nil {
		return nil, errors.ErrInvalidDueDate
	}
	return &datePart, nil
}

func validationErrorFields(err error) map[string]string {
	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Field() {
			case "Username":
				fields["username"] = errors.ErrInvalidUsername.Error()
			case "Email":
				fields["email"] = errors.ErrInvalidEmail.Error()
			case "Password":
				fields["password"] = errors.ErrInvalidPassword.Error()
			case "Title":
				fields["title"] = errors.ErrInvalidTitle.Error()
			case "Description":
				fields["description"] = errors.ErrInvalidDescription.Error()
			case "Status":
				fields["status"] = errors.ErrInvalidStatus.Error()
			case "Priority":
				fields["priority"] = errors.ErrInvalidPriority.Error()
			}
		}
	}
	if len(fields) == 0 {
		fields["request"] = errors.ErrValidationFailed.Error()
	}
	return fields
}
