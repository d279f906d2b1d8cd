package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Fabrika/internal/domain"
)

// Catalog DTOs

// TaskDefRequest — одна операция в запросе на замену каталога продукта.
// Requires принимает список результатов через запятую ("BOX_CUT, BOX_FOLD").
type TaskDefRequest struct {
	Name          string          `json:"name"`
	Result        string          `json:"result"`
	Requires      string          `json:"requires,omitempty"`
	DurationSlots int             `json:"duration_slots"`
	Weights       domain.SkillSet `json:"weights"`
}

// ReplaceProductRequest — запрос на полную замену операций продукта.
type ReplaceProductRequest struct {
	Tasks []TaskDefRequest `json:"tasks"`
}

// TaskDefResponse — ответ с операцией каталога.
type TaskDefResponse struct {
	Product       string          `json:"product"`
	Name          string          `json:"name"`
	Result        string          `json:"result"`
	Requires      []string        `json:"requires,omitempty"`
	DurationSlots int             `json:"duration_slots"`
	Weights       domain.SkillSet `json:"weights"`
}

// TaskDefFromDomain конвертирует domain.TaskDef в TaskDefResponse.
func TaskDefFromDomain(d domain.TaskDef) TaskDefResponse {
	return TaskDefResponse{
		Product:       d.Product,
		Name:          d.Name,
		Result:        d.Result,
		Requires:      d.Requires,
		DurationSlots: d.DurationSlots,
		Weights:       d.Weights,
	}
}

// Worker DTOs

// UpsertWorkerRequest — запрос на создание/обновление работника.
type UpsertWorkerRequest struct {
	Skills    domain.SkillSet `json:"skills"`
	Favorites []string        `json:"favorites,omitempty"`
}

// WorkerResponse — ответ с профилем работника.
type WorkerResponse struct {
	Name      string          `json:"name"`
	Skills    domain.SkillSet `json:"skills"`
	Favorites []string        `json:"favorites,omitempty"`
}

// WorkerFromDomain конвертирует domain.Worker в WorkerResponse.
func WorkerFromDomain(w domain.Worker) WorkerResponse {
	var favorites []string
	for _, fav := range w.Favorites {
		if fav != "" {
			favorites = append(favorites, fav)
		}
	}
	return WorkerResponse{
		Name:      w.Name,
		Skills:    w.Skills,
		Favorites: favorites,
	}
}

// Plan DTOs

// CreatePlanRequest — запрос на расчёт плана.
// Nil Seed означает случайное зерно; явное зерно даёт воспроизводимый план.
type CreatePlanRequest struct {
	Quantities     map[string]int `json:"quantities"`
	Workers        []string       `json:"workers"`
	Seed           *int64         `json:"seed,omitempty"`
	StartHour      int            `json:"start_hour,omitempty"`
	EndHour        int            `json:"end_hour,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
}

// PlanResponse — ответ с планом.
type PlanResponse struct {
	ID             uuid.UUID          `json:"id"`
	Order          domain.PlanOrder   `json:"order"`
	Status         string             `json:"status"`
	Result         *domain.PlanResult `json:"result,omitempty"`
	Error          string             `json:"error,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
	StartedAt      *time.Time         `json:"started_at,omitempty"`
	FinishedAt     *time.Time         `json:"finished_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// PlanFromDomain конвертирует domain.Plan в PlanResponse.
func PlanFromDomain(p domain.Plan) PlanResponse {
	return PlanResponse{
		ID:             p.ID,
		Order:          p.Order,
		Status:         string(p.Status),
		Result:         p.Result,
		Error:          p.Error,
		IdempotencyKey: p.IdempotencyKey,
		StartedAt:      p.StartedAt,
		FinishedAt:     p.FinishedAt,
		CreatedAt:      p.CreatedAt,
	}
}

// PlanSummaryFromDomain конвертирует план без тяжёлого результата
// (для списков).
func PlanSummaryFromDomain(p domain.Plan) PlanResponse {
	resp := PlanFromDomain(p)
	resp.Result = nil
	return resp
}

// StandingOrder DTOs

// CreateStandingOrderRequest — запрос на создание постоянного заказа.
type CreateStandingOrderRequest struct {
	Name        string           `json:"name"`
	Order       domain.PlanOrder `json:"order"`
	CronExpr    string           `json:"cron_expr,omitempty"`
	IntervalSec int              `json:"interval_sec,omitempty"`
	Timezone    string           `json:"timezone,omitempty"`
	Enabled     bool             `json:"enabled"`
}

// UpdateStandingOrderRequest — запрос на обновление постоянного заказа.
type UpdateStandingOrderRequest struct {
	Name        *string           `json:"name,omitempty"`
	Order       *domain.PlanOrder `json:"order,omitempty"`
	CronExpr    *string           `json:"cron_expr,omitempty"`
	IntervalSec *int              `json:"interval_sec,omitempty"`
	Timezone    *string           `json:"timezone,omitempty"`
}

// SetEnabledRequest — запрос на включение/выключение.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// StandingOrderResponse — ответ с постоянным заказом.
type StandingOrderResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Order       domain.PlanOrder `json:"order"`
	CronExpr    string           `json:"cron_expr,omitempty"`
	IntervalSec int              `json:"interval_sec,omitempty"`
	Timezone    string           `json:"timezone"`
	Enabled     bool             `json:"enabled"`
	NextDueAt   *time.Time       `json:"next_due_at,omitempty"`
	LastPlanAt  *time.Time       `json:"last_plan_at,omitempty"`
	LastPlanID  *uuid.UUID       `json:"last_plan_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// StandingFromDomain конвертирует domain.StandingOrder в StandingOrderResponse.
func StandingFromDomain(s *domain.StandingOrder) StandingOrderResponse {
	if s == nil {
		return StandingOrderResponse{}
	}
	return StandingOrderResponse{
		ID:          s.ID,
		Name:        s.Name,
		Order:       s.Order,
		CronExpr:    s.CronExpr,
		IntervalSec: s.IntervalSec,
		Timezone:    s.Timezone,
		Enabled:     s.Enabled,
		NextDueAt:   s.NextDueAt,
		LastPlanAt:  s.LastPlanAt,
		LastPlanID:  s.LastPlanID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
