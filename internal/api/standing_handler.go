package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Fabrika/internal/domain"
	"github.com/shaiso/Fabrika/internal/scheduler"
)

// ListStandingOrders возвращает список постоянных заказов.
// GET /api/v1/standing-orders?limit=...&offset=...
func (h *Handler) ListStandingOrders(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	orders, err := h.standingRepo.List(r.Context(), limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]StandingOrderResponse, len(orders))
	for i := range orders {
		result[i] = StandingFromDomain(&orders[i])
	}

	List(w, result, len(result))
}

// CreateStandingOrder создаёт постоянный заказ.
// POST /api/v1/standing-orders
func (h *Handler) CreateStandingOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateStandingOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Валидация
	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if req.CronExpr == "" && req.IntervalSec <= 0 {
		BadRequest(w, "either cron_expr or interval_sec is required")
		return
	}
	if req.CronExpr != "" {
		if err := scheduler.ValidateCronExpr(req.CronExpr); err != nil {
			BadRequest(w, err.Error())
			return
		}
	}
	if err := req.Order.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	now := time.Now()
	order := &domain.StandingOrder{
		ID:          uuid.New(),
		Name:        req.Name,
		Order:       req.Order,
		CronExpr:    req.CronExpr,
		IntervalSec: req.IntervalSec,
		Timezone:    timezone,
		Enabled:     req.Enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	nextDue, err := scheduler.CalculateInitialNextDue(order)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}
	order.NextDueAt = &nextDue

	if err := h.standingRepo.Create(r.Context(), order); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, StandingFromDomain(order))
}

// GetStandingOrder возвращает постоянный заказ по ID.
// GET /api/v1/standing-orders/{id}
func (h *Handler) GetStandingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid standing order id")
		return
	}

	order, err := h.standingRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "standing order not found") {
		return
	}

	Success(w, StandingFromDomain(order))
}

// UpdateStandingOrder обновляет постоянный заказ.
// PUT /api/v1/standing-orders/{id}
func (h *Handler) UpdateStandingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid standing order id")
		return
	}

	var req UpdateStandingOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	order, err := h.standingRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "standing order not found") {
		return
	}

	if req.Name != nil {
		order.Name = *req.Name
	}
	if req.Order != nil {
		if err := req.Order.Validate(); err != nil {
			BadRequest(w, err.Error())
			return
		}
		order.Order = *req.Order
	}
	if req.CronExpr != nil {
		if *req.CronExpr != "" {
			if err := scheduler.ValidateCronExpr(*req.CronExpr); err != nil {
				BadRequest(w, err.Error())
				return
			}
		}
		order.CronExpr = *req.CronExpr
	}
	if req.IntervalSec != nil {
		order.IntervalSec = *req.IntervalSec
	}
	if req.Timezone != nil {
		order.Timezone = *req.Timezone
	}

	// Расписание могло измениться — пересчитываем следующее время.
	nextDue, err := scheduler.CalculateNextDue(order, time.Now())
	if err != nil {
		BadRequest(w, err.Error())
		return
	}
	order.NextDueAt = &nextDue
	order.UpdatedAt = time.Now()

	if err := h.standingRepo.Update(r.Context(), order); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, StandingFromDomain(order))
}

// DeleteStandingOrder удаляет постоянный заказ.
// DELETE /api/v1/standing-orders/{id}
func (h *Handler) DeleteStandingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid standing order id")
		return
	}

	if err := h.standingRepo.Delete(r.Context(), id); err != nil {
		HandleRepoError(w, h.logger, err, "standing order not found")
		return
	}

	NoContent(w)
}

// SetStandingOrderEnabled включает или выключает постоянный заказ.
// PUT /api/v1/standing-orders/{id}/enabled
func (h *Handler) SetStandingOrderEnabled(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid standing order id")
		return
	}

	var req SetEnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if err := h.standingRepo.SetEnabled(r.Context(), id, req.Enabled); err != nil {
		HandleRepoError(w, h.logger, err, "standing order not found")
		return
	}

	// Возвращаем обновлённый заказ
	order, err := h.standingRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "standing order not found") {
		return
	}

	Success(w, StandingFromDomain(order))
}
