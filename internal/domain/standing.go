package domain

import (
	"time"

	"github.com/google/uuid"
)

// StandingOrder — постоянный производственный заказ.
//
// Позволяет пересчитывать план на регулярной основе:
//   - По cron-выражению: "0 6 * * 1-5" (по будням в 6:00)
//   - По интервалу: каждые N секунд
//
// Scheduler проверяет next_due_at и создаёт план, когда время подошло.
// Зерно генератора для каждого созданного плана разыгрывается заново,
// чтобы расчёты не повторяли друг друга.
type StandingOrder struct {
	// ID — уникальный идентификатор постоянного заказа.
	ID uuid.UUID `json:"id"`

	// Name — имя заказа для удобства.
	Name string `json:"name"`

	// Order — шаблон производственного заказа.
	// Поле Seed игнорируется: зерно разыгрывается на каждый план.
	Order PlanOrder `json:"order"`

	// CronExpr — cron-выражение.
	// Формат: "минуты часы дни месяцы дни_недели"
	// Если задан CronExpr, IntervalSec игнорируется.
	CronExpr string `json:"cron_expr,omitempty"`

	// IntervalSec — интервал в секундах между расчётами.
	// Используется если CronExpr не задан.
	IntervalSec int `json:"interval_sec,omitempty"`

	// Timezone — часовой пояс для вычисления времени.
	// По умолчанию: "UTC".
	Timezone string `json:"timezone"`

	// Enabled — флаг активности заказа.
	Enabled bool `json:"enabled"`

	// NextDueAt — время следующего расчёта.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`

	// LastPlanAt — время последнего созданного плана.
	LastPlanAt *time.Time `json:"last_plan_at,omitempty"`

	// LastPlanID — ID последнего созданного плана.
	LastPlanID *uuid.UUID `json:"last_plan_id,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCron возвращает true, если заказ использует cron-выражение.
func (s *StandingOrder) IsCron() bool {
	return s.CronExpr != ""
}

// IsInterval возвращает true, если заказ использует интервал.
func (s *StandingOrder) IsInterval() bool {
	return s.CronExpr == "" && s.IntervalSec > 0
}

// IsDue проверяет, пора ли создавать план.
func (s *StandingOrder) IsDue(now time.Time) bool {
	return s.Enabled && s.NextDueAt != nil && !s.NextDueAt.After(now)
}

// RecordPlan фиксирует созданный план и следующее время расчёта.
func (s *StandingOrder) RecordPlan(planID uuid.UUID, nextDue time.Time) {
	now := time.Now()
	s.LastPlanAt = &now
	s.LastPlanID = &planID
	s.NextDueAt = &nextDue
	s.UpdatedAt = now
}
