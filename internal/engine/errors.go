package engine

import "errors"

// Ошибки входных данных: отклоняют расчёт до любых мутаций состояния.
var (
	// ErrEmptyOrder — заказ не содержит продуктов.
	ErrEmptyOrder = errors.New("order has no products")

	// ErrNoWorkers — нет доступных работников.
	ErrNoWorkers = errors.New("no workers available")

	// ErrUnknownProduct — заказан продукт, отсутствующий в каталоге.
	ErrUnknownProduct = errors.New("product not in catalog")

	// ErrUnknownWorker — указан работник, отсутствующий в списке.
	ErrUnknownWorker = errors.New("worker not in roster")
)

// Ошибки конфигурации каталога: обнаруживаются резолвером зависимостей.
var (
	// ErrUnknownResult — операция требует результат, который не
	// производит ни одна известная операция.
	ErrUnknownResult = errors.New("requirement references unknown result")

	// ErrCyclicDependency — обнаружен цикл в зависимостях операций.
	ErrCyclicDependency = errors.New("cyclic dependency detected")
)

// ConfigError — ошибка конфигурации с указанием виновной операции.
type ConfigError struct {
	Task    string // имя операции, где обнаружена проблема
	Result  string // идентификатор результата (если применимо)
	Message string // описание
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ConfigError) Error() string {
	if e.Task != "" {
		return "task " + e.Task + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError создаёт ошибку конфигурации.
func NewConfigError(task, result, message string, err error) *ConfigError {
	return &ConfigError{
		Task:    task,
		Result:  result,
		Message: message,
		Err:     err,
	}
}
