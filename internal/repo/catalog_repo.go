package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Fabrika/internal/domain"
)

// CatalogRepo — репозиторий справочника операций.
//
// Порядок операций в каталоге значим: он фиксирует порядок обхода
// планировщика. Колонка position хранит позицию операции и
// выставляется при полной замене каталога продукта.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepo создаёт новый CatalogRepo.
func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// List возвращает весь каталог в сохранённом порядке.
func (r *CatalogRepo) List(ctx context.Context) (domain.Catalog, error) {
	query := `
		SELECT product, name, result, requires, duration_slots, weights
		FROM task_defs
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list task defs: %w", err)
	}
	defer rows.Close()

	return scanTaskDefs(rows)
}

// ForProduct возвращает операции продукта в сохранённом порядке.
func (r *CatalogRepo) ForProduct(ctx context.Context, product string) (domain.Catalog, error) {
	query := `
		SELECT product, name, result, requires, duration_slots, weights
		FROM task_defs
		WHERE product = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, product)
	if err != nil {
		return nil, fmt.Errorf("list product task defs: %w", err)
	}
	defer rows.Close()

	return scanTaskDefs(rows)
}

// ReplaceProduct атомарно заменяет все операции продукта.
// Позиции назначаются заново по порядку среза.
func (r *CatalogRepo) ReplaceProduct(ctx context.Context, product string, defs []domain.TaskDef) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_defs WHERE product = $1`, product); err != nil {
		return fmt.Errorf("delete product task defs: %w", err)
	}

	var nextPos int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM task_defs`).Scan(&nextPos); err != nil {
		return fmt.Errorf("get next position: %w", err)
	}

	query := `
		INSERT INTO task_defs (product, name, result, requires, duration_slots, weights, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range defs {
		requiresJSON, err := json.Marshal(defs[i].Requires)
		if err != nil {
			return fmt.Errorf("marshal requires: %w", err)
		}
		weightsJSON, err := json.Marshal(defs[i].Weights)
		if err != nil {
			return fmt.Errorf("marshal weights: %w", err)
		}
		if _, err := tx.Exec(ctx, query,
			defs[i].Product,
			defs[i].Name,
			defs[i].Result,
			requiresJSON,
			defs[i].DurationSlots,
			weightsJSON,
			nextPos+i,
		); err != nil {
			return fmt.Errorf("insert task def: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteProduct удаляет все операции продукта.
func (r *CatalogRepo) DeleteProduct(ctx context.Context, product string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM task_defs WHERE product = $1`, product)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanTaskDefs сканирует строки в операции каталога.
func scanTaskDefs(rows pgx.Rows) (domain.Catalog, error) {
	var catalog domain.Catalog
	for rows.Next() {
		var def domain.TaskDef
		var requiresJSON, weightsJSON []byte
		if err := rows.Scan(
			&def.Product,
			&def.Name,
			&def.Result,
			&requiresJSON,
			&def.DurationSlots,
			&weightsJSON,
		); err != nil {
			return nil, fmt.Errorf("scan task def: %w", err)
		}

		if requiresJSON != nil {
			if err := json.Unmarshal(requiresJSON, &def.Requires); err != nil {
				return nil, fmt.Errorf("unmarshal requires: %w", err)
			}
		}
		if err := json.Unmarshal(weightsJSON, &def.Weights); err != nil {
			return nil, fmt.Errorf("unmarshal weights: %w", err)
		}

		catalog = append(catalog, def)
	}
	return catalog, rows.Err()
}
