package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Fabrika/internal/domain"
)

// WorkerRepo — репозиторий списка работников.
type WorkerRepo struct {
	pool *pgxpool.Pool
}

// NewWorkerRepo создаёт новый WorkerRepo.
func NewWorkerRepo(pool *pgxpool.Pool) *WorkerRepo {
	return &WorkerRepo{pool: pool}
}

// Upsert создаёт работника или обновляет его профиль.
func (r *WorkerRepo) Upsert(ctx context.Context, worker *domain.Worker) error {
	skillsJSON, err := json.Marshal(worker.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	favoritesJSON, err := json.Marshal(worker.Favorites)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}

	query := `
		INSERT INTO workers (name, skills, favorites, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE
		SET skills = EXCLUDED.skills, favorites = EXCLUDED.favorites
	`
	if _, err := r.pool.Exec(ctx, query, worker.Name, skillsJSON, favoritesJSON); err != nil {
		return fmt.Errorf("upsert worker: %w", err)
	}
	return nil
}

// GetByName возвращает работника по имени.
func (r *WorkerRepo) GetByName(ctx context.Context, name string) (*domain.Worker, error) {
	query := `
		SELECT name, skills, favorites
		FROM workers
		WHERE name = $1
	`
	var worker domain.Worker
	var skillsJSON, favoritesJSON []byte
	err := r.pool.QueryRow(ctx, query, name).Scan(&worker.Name, &skillsJSON, &favoritesJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worker by name: %w", err)
	}

	if err := json.Unmarshal(skillsJSON, &worker.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(favoritesJSON, &worker.Favorites); err != nil {
		return nil, fmt.Errorf("unmarshal favorites: %w", err)
	}
	return &worker, nil
}

// List возвращает всех работников в порядке добавления.
// Порядок фиксирован: он определяет порядок обхода планировщика
// и разыгрывание коэффициентов агрессивности.
func (r *WorkerRepo) List(ctx context.Context) (domain.Roster, error) {
	query := `
		SELECT name, skills, favorites
		FROM workers
		ORDER BY created_at ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var roster domain.Roster
	for rows.Next() {
		var worker domain.Worker
		var skillsJSON, favoritesJSON []byte
		if err := rows.Scan(&worker.Name, &skillsJSON, &favoritesJSON); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		if err := json.Unmarshal(skillsJSON, &worker.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills: %w", err)
		}
		if err := json.Unmarshal(favoritesJSON, &worker.Favorites); err != nil {
			return nil, fmt.Errorf("unmarshal favorites: %w", err)
		}
		roster = append(roster, worker)
	}
	return roster, rows.Err()
}

// Delete удаляет работника.
func (r *WorkerRepo) Delete(ctx context.Context, name string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM workers WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
