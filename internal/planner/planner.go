package planner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Fabrika/internal/mq"
	"github.com/shaiso/Fabrika/internal/repo"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 50
	defaultPrefetch     = 5
)

// Planner рассчитывает планы производства.
//
// Planner — stateless компонент системы, который:
//   - Получает планы из очереди RabbitMQ (event-driven)
//   - Периодически проверяет pending планы в БД (polling fallback)
//   - Загружает каталог и состав работников, запускает расчёт расписания
//   - Сохраняет результат и отправляет plan.completed в очередь
//
// Planner-ы масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди; атомарный захват плана
// (PENDING -> RUNNING) гарантирует, что расчёт выполнится один раз.
type Planner struct {
	// Repositories
	planRepo    *repo.PlanRepo
	catalogRepo *repo.CatalogRepo
	workerRepo  *repo.WorkerRepo

	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection

	// Consumer
	consumer *mq.Consumer

	// Configuration
	pollInterval time.Duration
	batchSize    int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Planner.
type Config struct {
	// Repositories
	PlanRepo    *repo.PlanRepo
	CatalogRepo *repo.CatalogRepo
	WorkerRepo  *repo.WorkerRepo

	// MQ
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество планов за один poll (default: 50)

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Planner.
func New(cfg Config) *Planner {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		planRepo:     cfg.PlanRepo,
		catalogRepo:  cfg.CatalogRepo,
		workerRepo:   cfg.WorkerRepo,
		publisher:    cfg.Publisher,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start запускает Planner.
//
// Запускает:
//   - Consumer для plans.pending
//   - Polling горутину для fallback
func (p *Planner) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel

	p.logger.Info("starting planner",
		"poll_interval", p.pollInterval,
		"batch_size", p.batchSize,
	)

	// Создаём consumer
	p.consumer = mq.NewConsumer(p.conn, p.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueuePlansPending),
		Handler:  p.handlePlanPending,
		Prefetch: defaultPrefetch,
	})

	// Запускаем consumer
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("plan consumer error", "error", err)
		}
	}()

	// Запускаем polling
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.pollLoop(ctx)
	}()

	p.logger.Info("planner started")
	return nil
}

// Stop останавливает Planner.
func (p *Planner) Stop() {
	p.stoppedMu.Lock()
	p.stopped = true
	p.stoppedMu.Unlock()

	p.logger.Info("stopping planner...")

	if p.cancelFunc != nil {
		p.cancelFunc()
	}

	if p.consumer != nil {
		p.consumer.Stop()
	}

	// Ждём завершения горутин
	p.wg.Wait()

	p.logger.Info("planner stopped")
}

// IsStopped проверяет, остановлен ли Planner.
func (p *Planner) IsStopped() bool {
	p.stoppedMu.RLock()
	defer p.stoppedMu.RUnlock()
	return p.stopped
}

// pollLoop — цикл polling для fallback.
func (p *Planner) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем планы созданные пока были выключены)
	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (p *Planner) poll(ctx context.Context) {
	plans, err := p.planRepo.ListPending(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("failed to list pending plans", "error", err)
		return
	}

	if len(plans) == 0 {
		return
	}

	p.logger.Debug("poll found pending plans", "count", len(plans))

	for i := range plans {
		plan := &plans[i]

		if err := p.processPlan(ctx, plan.ID); err != nil {
			// План мог забрать другой экземпляр между ListPending и захватом
			if errors.Is(err, ErrPlanNotPending) || errors.Is(err, ErrPlanNotFound) {
				continue
			}
			p.logger.Error("failed to process plan from poll",
				"plan_id", plan.ID,
				"error", err,
			)
		}
	}
}
