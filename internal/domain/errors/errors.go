package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrInvalidCredentials = errors.New("неверные учетные данные")
	ErrUserAlreadyExists  = errors.New("пользователь уже существует")
	ErrValidationFailed   = errors.New("ошибка валидации")
	ErrUnauthorized       = errors.New("требуется аутентификация")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrNotFound           = errors.New("задача не найдена")
	ErrConflict           = errors.New("конфликт ресурса")

	ErrInvalidUsername    = errors.New("некорректное имя пользователя")
	ErrInvalidEmail       = errors.New("некорректный email")
	ErrInvalidPassword    = errors.New("некорректный пароль")
	ErrInvalidTitle       = errors.New("некорректный заголовок задачи")
	ErrInvalidDescription = errors.New("некорректное описание задачи")
	ErrInvalidStatus      = errors.New("недопустимый статус задачи")
	ErrInvalidPriority    = errors.New("недопустимый приоритет задачи")
	ErrInvalidDueDate     = errors.New("некорректный срок выполнения задачи")

	ErrConfigFileReadFailed = errors.New("не удалось прочитать файл конфигурации")
	ErrConfigParseFailed    = errors.New("не удалось разобрать файл конфигурации")
	ErrConfigInvalidFormat  = errors.New("некорректное значение конфигурации")

	ErrGzipCompressionFailed = errors.New("ошибка сжатия ответа")

	ErrNoActiveDrag  = errors.New("нет перетаскиваемой карточки")
	ErrUnknownTask   = errors.New("карточка не найдена на доске")
	ErrBoardNotReady = errors.New("доска ещё не загружена")
)
