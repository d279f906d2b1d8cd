package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Fabrika/internal/domain"
	"github.com/shaiso/Fabrika/internal/mq"
	"github.com/shaiso/Fabrika/internal/repo"
)

// Scheduler — планировщик, создающий планы по постоянным заказам.
type Scheduler struct {
	standingRepo *repo.StandingRepo
	planRepo     *repo.PlanRepo
	publisher    *mq.Publisher
	logger       *slog.Logger
	batchSize    int
}

// Config — конфигурация Scheduler.
type Config struct {
	StandingRepo *repo.StandingRepo
	PlanRepo     *repo.PlanRepo
	Publisher    *mq.Publisher
	Logger       *slog.Logger
	BatchSize    int // количество заказов за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Scheduler{
		standingRepo: cfg.StandingRepo,
		planRepo:     cfg.PlanRepo,
		publisher:    cfg.Publisher,
		logger:       cfg.Logger,
		batchSize:    batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due постоянные заказы (enabled=true, next_due_at <= now)
// 2. Для каждого заказа создаёт план
// 3. Обновляет next_due_at
// 4. Публикует plan.pending в RabbitMQ
//
// Ошибки одного заказа не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	// 1. Находим due заказы
	orders, err := s.standingRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due standing orders: %w", err)
	}

	if len(orders) == 0 {
		return nil
	}

	s.logger.Debug("found due standing orders", "count", len(orders))

	// 2. Обрабатываем каждый заказ
	var processed, created int
	for i := range orders {
		order := &orders[i]

		planCreated, err := s.processStanding(ctx, order, now)
		if err != nil {
			s.logger.Error("failed to process standing order",
				"standing_id", order.ID,
				"standing_name", order.Name,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		processed++
		if planCreated {
			created++
		}
	}

	s.logger.Info("scheduler tick completed",
		"due", len(orders),
		"processed", processed,
		"plans_created", created,
	)

	return nil
}

// processStanding обрабатывает один постоянный заказ.
// Возвращает true, если план был создан (не был дубликатом).
func (s *Scheduler) processStanding(ctx context.Context, order *domain.StandingOrder, now time.Time) (bool, error) {
	// 1. Формируем idempotency key: "{standing_id}_{next_due_at_unix}"
	// Это гарантирует, что для одного заказа и конкретного времени
	// будет создан только один план
	idempKey := fmt.Sprintf("%s_%d", order.ID, order.NextDueAt.Unix())

	// 2. Проверяем, не создан ли уже план (idempotency)
	existingPlan, err := s.planRepo.GetByIdempotencyKey(ctx, idempKey)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, fmt.Errorf("check idempotency: %w", err)
	}

	var planCreated bool
	var planID uuid.UUID

	if existingPlan != nil {
		// План уже существует — просто обновляем next_due_at
		s.logger.Debug("plan already exists (idempotency)",
			"standing_id", order.ID,
			"plan_id", existingPlan.ID,
			"idempotency_key", idempKey,
		)
		planID = existingPlan.ID
		planCreated = false
	} else {
		// 3. Создаём новый план. Зерно разыгрывается на каждый план,
		// чтобы регулярные расчёты не повторяли друг друга.
		planOrder := order.Order
		planOrder.Seed = rand.Int63()

		plan := &domain.Plan{
			ID:             uuid.New(),
			Order:          planOrder,
			Status:         domain.PlanStatusPending,
			IdempotencyKey: idempKey,
			CreatedAt:      now,
		}

		if err := s.planRepo.Create(ctx, plan); err != nil {
			return false, fmt.Errorf("create plan: %w", err)
		}

		s.logger.Info("created plan from standing order",
			"plan_id", plan.ID,
			"standing_id", order.ID,
			"standing_name", order.Name,
			"seed", planOrder.Seed,
		)

		planID = plan.ID
		planCreated = true
	}

	// 4. Вычисляем следующее время создания плана
	nextDue, err := CalculateNextDue(order, now)
	if err != nil {
		s.logger.Error("failed to calculate next due",
			"standing_id", order.ID,
			"error", err,
		)
		// Заказ некорректный — лучше не трогать next_due_at
		return planCreated, nil
	}

	// 5. Обновляем заказ
	order.RecordPlan(planID, nextDue)
	if err := s.standingRepo.Update(ctx, order); err != nil {
		return planCreated, fmt.Errorf("update standing order: %w", err)
	}

	// 6. Публикуем событие в RabbitMQ (если publisher настроен и план создан)
	if s.publisher != nil && planCreated {
		if err := s.publisher.PublishPlanPending(ctx, planID); err != nil {
			// Не фатальная ошибка — план уже создан в БД
			// Planner может забрать его через polling
			s.logger.Warn("failed to publish plan.pending",
				"plan_id", planID,
				"error", err,
			)
		}
	}

	return planCreated, nil
}
