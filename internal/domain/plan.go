package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Часы рабочего дня по умолчанию: слоты по 30 минут с 08:00 до 16:00.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 16
)

// PlanOrder — производственный заказ: вход расчёта плана.
//
// Вместе с каталогом, списком работников и зерном генератора заказ
// полностью определяет результат — расчёт детерминирован.
type PlanOrder struct {
	// Quantities — запрошенные количества по продуктам (строго > 0).
	Quantities map[string]int `json:"quantities"`

	// Workers — имена доступных работников.
	Workers []string `json:"workers"`

	// Seed — зерно генератора случайных чисел.
	// Фиксирует разыгрывание агрессивных работников и коэффициентов
	// агрессивности; одинаковое зерно — одинаковый план.
	Seed int64 `json:"seed"`

	// StartHour, EndHour — границы рабочего дня (часы).
	// Нулевые значения означают значения по умолчанию 8 и 16.
	StartHour int `json:"start_hour,omitempty"`
	EndHour   int `json:"end_hour,omitempty"`
}

// Hours возвращает границы рабочего дня с учётом значений по умолчанию.
func (o *PlanOrder) Hours() (start, end int) {
	start, end = o.StartHour, o.EndHour
	if start == 0 && end == 0 {
		return DefaultStartHour, DefaultEndHour
	}
	return start, end
}

// Validate проверяет базовую корректность заказа.
// Проверки против каталога и списка работников выполняет engine.
func (o *PlanOrder) Validate() error {
	if len(o.Quantities) == 0 {
		return fmt.Errorf("order has no products")
	}
	for product, qty := range o.Quantities {
		if qty <= 0 {
			return fmt.Errorf("product %q: quantity must be positive, got %d", product, qty)
		}
	}
	if len(o.Workers) == 0 {
		return fmt.Errorf("order has no workers")
	}
	start, end := o.Hours()
	if start < 0 || end > 24 || start >= end {
		return fmt.Errorf("invalid working hours %d-%d", start, end)
	}
	return nil
}

// PlanResult — результат расчёта: сетка, статистика, состояние работников.
type PlanResult struct {
	// Schedule — заполненная сетка расписания.
	Schedule *Schedule `json:"schedule"`

	// Stats — сводная статистика завершения.
	Stats CompletionStats `json:"stats"`

	// WorkerStats — накопительная статистика по работникам.
	WorkerStats map[string]*WorkerStats `json:"worker_stats"`

	// WorkerReports — производные отчёты по работникам.
	WorkerReports []WorkerReport `json:"worker_reports"`
}

// Plan — один расчёт расписания по производственному заказу.
//
// Plan создаётся когда:
//   - Пользователь отправляет заказ через API/CLI
//   - Scheduler создаёт план по постоянному заказу (StandingOrder)
//
// Расчёт выполняет Planner. Каждый план — атомарное независимое
// вычисление: планы разных заказов считаются параллельно, внутри
// одного плана цикл по дням и слотам строго последователен.
type Plan struct {
	// ID — уникальный идентификатор плана.
	ID uuid.UUID `json:"id"`

	// Order — производственный заказ.
	Order PlanOrder `json:"order"`

	// Status — текущий статус расчёта.
	Status PlanStatus `json:"status"`

	// Result — результат расчёта. Nil до завершения.
	Result *PlanResult `json:"result,omitempty"`

	// Error — текст ошибки при статусе FAILED.
	Error string `json:"error,omitempty"`

	// IdempotencyKey — ключ идемпотентности.
	// Для планов от standing orders: "{standing_id}_{due_unix}".
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// StartedAt — время начала расчёта.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения расчёта.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания плана.
	CreatedAt time.Time `json:"created_at"`
}

// Duration возвращает продолжительность расчёта.
func (p *Plan) Duration() time.Duration {
	if p.StartedAt == nil || p.FinishedAt == nil {
		return 0
	}
	return p.FinishedAt.Sub(*p.StartedAt)
}

// IsFinished возвращает true, если расчёт завершён.
func (p *Plan) IsFinished() bool {
	return p.Status.IsTerminal()
}

// MarkRunning переводит план в статус RUNNING.
func (p *Plan) MarkRunning() {
	now := time.Now()
	p.Status = PlanStatusRunning
	p.StartedAt = &now
}

// MarkSucceeded переводит план в статус SUCCEEDED с результатом.
func (p *Plan) MarkSucceeded(result *PlanResult) {
	now := time.Now()
	p.Status = PlanStatusSucceeded
	p.FinishedAt = &now
	p.Result = result
}

// MarkFailed переводит план в статус FAILED с ошибкой.
func (p *Plan) MarkFailed(err string) {
	now := time.Now()
	p.Status = PlanStatusFailed
	p.FinishedAt = &now
	p.Error = err
}
