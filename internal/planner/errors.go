package planner

import "errors"

// Ошибки сервиса расчёта.
var (
	// ErrPlanNotFound — план не найден в БД.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPlanNotPending — план не в статусе PENDING
	// (уже подхвачен другим экземпляром или завершён).
	ErrPlanNotPending = errors.New("plan is not in PENDING status")
)
