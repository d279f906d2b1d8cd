package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Fabrika/internal/domain"
)

// StandingRepo — репозиторий постоянных заказов.
type StandingRepo struct {
	pool *pgxpool.Pool
}

// NewStandingRepo создаёт новый StandingRepo.
func NewStandingRepo(pool *pgxpool.Pool) *StandingRepo {
	return &StandingRepo{pool: pool}
}

// Create создаёт новый постоянный заказ.
func (r *StandingRepo) Create(ctx context.Context, order *domain.StandingOrder) error {
	orderJSON, err := json.Marshal(order.Order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `
		INSERT INTO standing_orders (id, name, order_spec, cron_expr, interval_sec,
		                             timezone, enabled, next_due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.pool.Exec(ctx, query,
		order.ID,
		nullString(order.Name),
		orderJSON,
		nullString(order.CronExpr),
		nullInt(order.IntervalSec),
		order.Timezone,
		order.Enabled,
		order.NextDueAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert standing order: %w", err)
	}
	return nil
}

// GetByID возвращает постоянный заказ по ID.
func (r *StandingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StandingOrder, error) {
	query := `
		SELECT id, name, order_spec, cron_expr, interval_sec, timezone, enabled,
		       next_due_at, last_plan_at, last_plan_id, created_at, updated_at
		FROM standing_orders
		WHERE id = $1
	`
	return scanStanding(r.pool.QueryRow(ctx, query, id))
}

// List возвращает постоянные заказы.
func (r *StandingRepo) List(ctx context.Context, limit, offset int) ([]domain.StandingOrder, error) {
	query := `
		SELECT id, name, order_spec, cron_expr, interval_sec, timezone, enabled,
		       next_due_at, last_plan_at, last_plan_id, created_at, updated_at
		FROM standing_orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list standing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.StandingOrder
	for rows.Next() {
		order, err := scanStandingFromRows(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// ListDue возвращает заказы, готовые к созданию плана.
func (r *StandingRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.StandingOrder, error) {
	query := `
		SELECT id, name, order_spec, cron_expr, interval_sec, timezone, enabled,
		       next_due_at, last_plan_at, last_plan_id, created_at, updated_at
		FROM standing_orders
		WHERE enabled = true
		  AND next_due_at IS NOT NULL
		  AND next_due_at <= $1
		ORDER BY next_due_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due standing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.StandingOrder
	for rows.Next() {
		order, err := scanStandingFromRows(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// Update обновляет постоянный заказ.
func (r *StandingRepo) Update(ctx context.Context, order *domain.StandingOrder) error {
	orderJSON, err := json.Marshal(order.Order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `
		UPDATE standing_orders
		SET name = $2, order_spec = $3, cron_expr = $4, interval_sec = $5,
		    timezone = $6, enabled = $7, next_due_at = $8, last_plan_at = $9,
		    last_plan_id = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		order.ID,
		nullString(order.Name),
		orderJSON,
		nullString(order.CronExpr),
		nullInt(order.IntervalSec),
		order.Timezone,
		order.Enabled,
		order.NextDueAt,
		order.LastPlanAt,
		nullUUID(order.LastPlanID),
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update standing order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет постоянный заказ.
func (r *StandingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM standing_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete standing order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnabled включает/выключает постоянный заказ.
func (r *StandingRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE standing_orders SET enabled = $2, updated_at = NOW() WHERE id = $1
	`, id, enabled)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

func scanStanding(row pgx.Row) (*domain.StandingOrder, error) {
	var s domain.StandingOrder
	var name, cronExpr *string
	var intervalSec *int
	var orderJSON []byte

	err := row.Scan(
		&s.ID,
		&name,
		&orderJSON,
		&cronExpr,
		&intervalSec,
		&s.Timezone,
		&s.Enabled,
		&s.NextDueAt,
		&s.LastPlanAt,
		&s.LastPlanID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan standing order: %w", err)
	}

	return fillStanding(&s, orderJSON, name, cronExpr, intervalSec)
}

func scanStandingFromRows(rows pgx.Rows) (*domain.StandingOrder, error) {
	var s domain.StandingOrder
	var name, cronExpr *string
	var intervalSec *int
	var orderJSON []byte

	err := rows.Scan(
		&s.ID,
		&name,
		&orderJSON,
		&cronExpr,
		&intervalSec,
		&s.Timezone,
		&s.Enabled,
		&s.NextDueAt,
		&s.LastPlanAt,
		&s.LastPlanID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan standing order: %w", err)
	}

	return fillStanding(&s, orderJSON, name, cronExpr, intervalSec)
}

func fillStanding(s *domain.StandingOrder, orderJSON []byte, name, cronExpr *string, intervalSec *int) (*domain.StandingOrder, error) {
	if err := json.Unmarshal(orderJSON, &s.Order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	if name != nil {
		s.Name = *name
	}
	if cronExpr != nil {
		s.CronExpr = *cronExpr
	}
	if intervalSec != nil {
		s.IntervalSec = *intervalSec
	}
	return s, nil
}
