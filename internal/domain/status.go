package domain

// PlanStatus — статус расчёта плана.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
type PlanStatus string

const (
	// PlanStatusPending — план создан, ожидает расчёта.
	PlanStatusPending PlanStatus = "PENDING"

	// PlanStatusRunning — планировщик выполняет расчёт.
	PlanStatusRunning PlanStatus = "RUNNING"

	// PlanStatusSucceeded — расчёт успешно завершён, результат сохранён.
	PlanStatusSucceeded PlanStatus = "SUCCEEDED"

	// PlanStatusFailed — расчёт отклонён (ошибка конфигурации или входа).
	PlanStatusFailed PlanStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s PlanStatus) IsTerminal() bool {
	switch s {
	case PlanStatusSucceeded, PlanStatusFailed:
		return true
	default:
		return false
	}
}
