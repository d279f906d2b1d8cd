package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Fabrika/internal/domain"
)

// PlanRepo — репозиторий расчётов планов.
type PlanRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepo создаёт новый PlanRepo.
func NewPlanRepo(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

// Create создаёт новый план.
// Конфликт по ключу идемпотентности возвращает ErrAlreadyExists.
func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	orderJSON, err := json.Marshal(plan.Order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `
		INSERT INTO plans (id, order_spec, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		plan.ID,
		orderJSON,
		plan.Status,
		nullString(plan.IdempotencyKey),
		plan.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID возвращает план по ID.
func (r *PlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `
		SELECT id, order_spec, status, result, error, idempotency_key,
		       started_at, finished_at, created_at
		FROM plans
		WHERE id = $1
	`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

// GetByIdempotencyKey возвращает план по ключу идемпотентности.
func (r *PlanRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Plan, error) {
	query := `
		SELECT id, order_spec, status, result, error, idempotency_key,
		       started_at, finished_at, created_at
		FROM plans
		WHERE idempotency_key = $1
	`
	return scanPlan(r.pool.QueryRow(ctx, query, key))
}

// List возвращает планы с фильтрацией по статусу.
func (r *PlanRepo) List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error) {
	query := `
		SELECT id, order_spec, status, result, error, idempotency_key,
		       started_at, finished_at, created_at
		FROM plans
		WHERE ($1::text IS NULL OR status = $1::plan_status)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlanFromRows(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// ListPending возвращает планы в статусе PENDING.
// Страховка на случай потери сообщения в очереди: planner периодически
// опрашивает БД и подбирает зависшие планы.
func (r *PlanRepo) ListPending(ctx context.Context, limit int) ([]domain.Plan, error) {
	query := `
		SELECT id, order_spec, status, result, error, idempotency_key,
		       started_at, finished_at, created_at
		FROM plans
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlanFromRows(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// Update обновляет статус, результат и времена плана.
func (r *PlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	var resultJSON []byte
	if plan.Result != nil {
		var err error
		resultJSON, err = json.Marshal(plan.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
	}

	query := `
		UPDATE plans
		SET status = $2, result = $3, error = $4, started_at = $5, finished_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Status,
		resultJSON,
		nullString(plan.Error),
		plan.StartedAt,
		plan.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRunningIfPending атомарно переводит план PENDING → RUNNING.
// Возвращает ErrInvalidState, если план уже подхвачен другим planner
// (конкурирующий consumer и polling-страховка).
func (r *PlanRepo) MarkRunningIfPending(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE plans
		SET status = 'RUNNING', started_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark plan running: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// --- Helpers ---

// PlanFilter — параметры фильтрации планов.
type PlanFilter struct {
	Status domain.PlanStatus
	Limit  int
	Offset int
}

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var plan domain.Plan
	var orderJSON, resultJSON []byte
	var planError, idempotencyKey *string

	err := row.Scan(
		&plan.ID,
		&orderJSON,
		&plan.Status,
		&resultJSON,
		&planError,
		&idempotencyKey,
		&plan.StartedAt,
		&plan.FinishedAt,
		&plan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	return fillPlan(&plan, orderJSON, resultJSON, planError, idempotencyKey)
}

func scanPlanFromRows(rows pgx.Rows) (*domain.Plan, error) {
	var plan domain.Plan
	var orderJSON, resultJSON []byte
	var planError, idempotencyKey *string

	err := rows.Scan(
		&plan.ID,
		&orderJSON,
		&plan.Status,
		&resultJSON,
		&planError,
		&idempotencyKey,
		&plan.StartedAt,
		&plan.FinishedAt,
		&plan.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	return fillPlan(&plan, orderJSON, resultJSON, planError, idempotencyKey)
}

func fillPlan(plan *domain.Plan, orderJSON, resultJSON []byte, planError, idempotencyKey *string) (*domain.Plan, error) {
	if err := json.Unmarshal(orderJSON, &plan.Order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	if resultJSON != nil {
		plan.Result = &domain.PlanResult{}
		if err := json.Unmarshal(resultJSON, plan.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	if planError != nil {
		plan.Error = *planError
	}
	if idempotencyKey != nil {
		plan.IdempotencyKey = *idempotencyKey
	}
	return plan, nil
}
