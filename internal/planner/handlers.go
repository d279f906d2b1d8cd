package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Fabrika/internal/engine"
	"github.com/shaiso/Fabrika/internal/mq"
	"github.com/shaiso/Fabrika/internal/repo"
)

// handlePlanPending обрабатывает событие о новом плане из очереди plans.pending.
func (p *Planner) handlePlanPending(ctx context.Context, delivery *mq.Delivery) error {
	// Парсим payload
	payload, err := mq.ParsePayload[mq.PlanPendingPayload](&delivery.Message)
	if err != nil {
		p.logger.Error("failed to parse plan.pending payload", "error", err)
		return err
	}

	p.logger.Debug("received plan.pending event", "plan_id", payload.PlanID)

	// Обрабатываем план
	if err := p.processPlan(ctx, payload.PlanID); err != nil {
		// Ожидаемые ситуации — не возвращаем ошибку (ack)
		if errors.Is(err, ErrPlanNotFound) || errors.Is(err, ErrPlanNotPending) {
			p.logger.Debug("plan not processed", "plan_id", payload.PlanID, "reason", err)
			return nil
		}
		p.logger.Error("failed to process plan", "plan_id", payload.PlanID, "error", err)
		return err
	}

	return nil
}

// processPlan захватывает план, выполняет расчёт и сохраняет результат.
func (p *Planner) processPlan(ctx context.Context, planID uuid.UUID) error {
	// 1. Атомарно захватываем план: PENDING -> RUNNING.
	// Конкурирующий экземпляр (или polling рядом с consumer-ом)
	// получит ErrInvalidState и пропустит план.
	if err := p.planRepo.MarkRunningIfPending(ctx, planID); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		case errors.Is(err, repo.ErrInvalidState):
			return ErrPlanNotPending
		}
		return fmt.Errorf("claim plan: %w", err)
	}

	// 2. Загружаем план из БД
	plan, err := p.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		}
		return fmt.Errorf("get plan: %w", err)
	}

	p.logger.Info("plan started",
		"plan_id", plan.ID,
		"products", len(plan.Order.Quantities),
		"workers", len(plan.Order.Workers),
		"seed", plan.Order.Seed,
	)

	// 3. Загружаем каталог и состав работников
	catalog, err := p.catalogRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	roster, err := p.workerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	// 4. Выполняем расчёт
	started := time.Now()
	result, calcErr := engine.BuildPlan(engine.Input{
		Catalog: catalog,
		Roster:  roster,
		Order:   plan.Order,
	})
	planDuration.Observe(time.Since(started).Seconds())

	// 5. Обрабатываем результат
	if calcErr == nil {
		plan.MarkSucceeded(result)
		if err := p.planRepo.Update(ctx, plan); err != nil {
			return fmt.Errorf("update plan to succeeded: %w", err)
		}
		plansTotal.WithLabelValues("succeeded").Inc()
		planCompletion.Observe(result.Stats.CompletionPercentage)

		p.logger.Info("plan succeeded",
			"plan_id", plan.ID,
			"days", result.Stats.EstimatedDays,
			"completion_pct", result.Stats.CompletionPercentage,
			"duration", time.Since(started),
		)

		return p.publishCompletion(ctx, plan.ID, string(plan.Status), "")
	}

	// Ошибка расчёта (битый каталог, неизвестный продукт и т.п.) —
	// план переходит в FAILED, retry не поможет
	plan.MarkFailed(calcErr.Error())
	if err := p.planRepo.Update(ctx, plan); err != nil {
		return fmt.Errorf("update plan to failed: %w", err)
	}
	plansTotal.WithLabelValues("failed").Inc()

	p.logger.Warn("plan failed",
		"plan_id", plan.ID,
		"error", calcErr,
	)

	return p.publishCompletion(ctx, plan.ID, string(plan.Status), calcErr.Error())
}

// publishCompletion публикует событие plan.completed.
func (p *Planner) publishCompletion(ctx context.Context, planID uuid.UUID, status, errMsg string) error {
	if p.publisher == nil {
		p.logger.Warn("publisher not available, skipping plan.completed publish",
			"plan_id", planID,
		)
		return nil
	}

	payload := mq.PlanCompletedPayload{
		PlanID: planID,
		Status: status,
		Error:  errMsg,
	}

	if err := p.publisher.PublishPlanCompleted(ctx, payload); err != nil {
		p.logger.Warn("failed to publish plan.completed",
			"plan_id", planID,
			"error", err,
		)
		// Не возвращаем ошибку — план обновлён в БД, клиенты увидят статус через API
	}

	return nil
}
