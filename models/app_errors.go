package models

import "github.com/pkg/errors"

// ErrorKind классификация бизнес-ошибок воркфлоу.
// Контроллеры по виду ошибки выбирают http статус, клиенты — стратегию повтора.
type ErrorKind string

const (
	// ErrKindValidation некорректный запрос, повтор без исправления бесполезен
	ErrKindValidation ErrorKind = "VALIDATION"
	// ErrKindStateConflict состояние записи изменилось, нужно перечитать и повторить
	ErrKindStateConflict ErrorKind = "STATE_CONFLICT"
	// ErrKindWindowViolation действие вне разрешенного временного окна
	ErrKindWindowViolation ErrorKind = "WINDOW_VIOLATION"
	// ErrKindNotEligible сотрудник/цель не проходит правила допуска
	ErrKindNotEligible ErrorKind = "NOT_ELIGIBLE"
	// ErrKindCapacity превышение недельного лимита часов
	ErrKindCapacity ErrorKind = "CAPACITY"
	// ErrKindNotFound запись не найдена
	ErrKindNotFound ErrorKind = "NOT_FOUND"
	// ErrKindDependency недоступен справочник/внешний сервис
	ErrKindDependency ErrorKind = "DEPENDENCY"
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &AppError{Kind: ErrKindValidation, Message: message}
}

func NewStateConflictError(message string) error {
	return &AppError{Kind: ErrKindStateConflict, Message: message}
}

func NewWindowViolationError(message string) error {
	return &AppError{Kind: ErrKindWindowViolation, Message: message}
}

func NewNotEligibleError(message string) error {
	return &AppError{Kind: ErrKindNotEligible, Message: message}
}

func NewCapacityError(message string) error {
	return &AppError{Kind: ErrKindCapacity, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: ErrKindNotFound, Message: message}
}

func NewDependencyError(message string) error {
	return &AppError{Kind: ErrKindDependency, Message: message}
}

// GetErrorKind вид ошибки с учетом оберток pkg/errors, пустая строка для системных ошибок
func GetErrorKind(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsErrorKind(err error, kind ErrorKind) bool {
	return GetErrorKind(err) == kind
}
