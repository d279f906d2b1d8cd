package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Fabrika/internal/domain"
	"github.com/shaiso/Fabrika/internal/engine"
	"github.com/shaiso/Fabrika/internal/repo"
)

// ListPlans возвращает список планов с фильтрацией.
// GET /api/v1/plans?status=...&limit=...&offset=...
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	filter := repo.PlanFilter{
		Status: domain.PlanStatus(r.URL.Query().Get("status")),
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}

	plans, err := h.planRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		result[i] = PlanSummaryFromDomain(plan)
	}

	List(w, result, len(result))
}

// CreatePlan принимает производственный заказ и ставит расчёт в очередь.
// POST /api/v1/plans
//
// Заказ проверяется против каталога и списка работников до постановки:
// неизвестный продукт, неизвестный работник или цикл в зависимостях —
// это 400, а не упавший план.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Идемпотентный повтор возвращает существующий план.
	if req.IdempotencyKey != "" {
		existing, err := h.planRepo.GetByIdempotencyKey(r.Context(), req.IdempotencyKey)
		if err == nil && existing != nil {
			Success(w, PlanFromDomain(*existing))
			return
		}
	}

	seed := rand.Int63()
	if req.Seed != nil {
		seed = *req.Seed
	}

	order := domain.PlanOrder{
		Quantities: req.Quantities,
		Workers:    req.Workers,
		Seed:       seed,
		StartHour:  req.StartHour,
		EndHour:    req.EndHour,
	}
	if err := order.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	catalog, err := h.catalogRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}
	roster, err := h.workerRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	if err := engine.ValidateOrder(engine.Input{Catalog: catalog, Roster: roster, Order: order}); err != nil {
		BadRequest(w, err.Error())
		return
	}

	plan := &domain.Plan{
		ID:             uuid.New(),
		Order:          order,
		Status:         domain.PlanStatusPending,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := h.planRepo.Create(r.Context(), plan); err != nil {
		// Гонка по ключу идемпотентности: возвращаем победителя.
		if errors.Is(err, repo.ErrAlreadyExists) && req.IdempotencyKey != "" {
			existing, getErr := h.planRepo.GetByIdempotencyKey(r.Context(), req.IdempotencyKey)
			if getErr == nil {
				Success(w, PlanFromDomain(*existing))
				return
			}
		}
		InternalError(w, h.logger, err)
		return
	}

	// Публикуем событие в очередь
	if h.publisher != nil {
		if err := h.publisher.PublishPlanPending(r.Context(), plan.ID); err != nil {
			h.logger.Warn("failed to publish plan.pending", "plan_id", plan.ID, "error", err)
		}
	}

	Created(w, PlanFromDomain(*plan))
}

// GetPlan возвращает план по ID вместе с результатом.
// GET /api/v1/plans/{id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	Success(w, PlanFromDomain(*plan))
}

// GetPlanStats возвращает сводную статистику завершения плана.
// GET /api/v1/plans/{id}/stats
func (h *Handler) GetPlanStats(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	if plan.Result == nil {
		InvalidState(w, fmt.Sprintf("plan is %s, no result yet", plan.Status))
		return
	}

	Success(w, plan.Result.Stats)
}

// GetPlanWorkers возвращает отчёты по работникам плана.
// GET /api/v1/plans/{id}/workers
func (h *Handler) GetPlanWorkers(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	if plan.Result == nil {
		InvalidState(w, fmt.Sprintf("plan is %s, no result yet", plan.Status))
		return
	}

	List(w, plan.Result.WorkerReports, len(plan.Result.WorkerReports))
}

// ExportPlanCSV выгружает расписание плана в CSV.
// GET /api/v1/plans/{id}/export.csv
func (h *Handler) ExportPlanCSV(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	if plan.Result == nil || plan.Result.Schedule == nil {
		InvalidState(w, fmt.Sprintf("plan is %s, no schedule yet", plan.Status))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "plan_"+plan.ID.String()+".csv"))

	if err := plan.Result.Schedule.WriteCSV(w); err != nil {
		h.logger.Error("csv export failed", "plan_id", plan.ID, "error", err)
	}
}

// loadPlan разбирает {id} и загружает план; ошибки пишет в ответ.
func (h *Handler) loadPlan(w http.ResponseWriter, r *http.Request) (*domain.Plan, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid plan id")
		return nil, false
	}

	plan, err := h.planRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "plan not found") {
		return nil, false
	}
	return plan, true
}

// parseIntDefault парсит строку в int с дефолтным значением.
func parseIntDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}
