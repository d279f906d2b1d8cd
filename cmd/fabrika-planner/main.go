// Fabrika Planner — рассчитывает планы производства.
//
// Planner:
//   - Получает планы из RabbitMQ
//   - Загружает каталог операций и состав работников
//   - Выполняет детерминированный расчёт расписания
//   - Сохраняет результат и публикует plan.completed
//
// Planner-ы масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Fabrika/internal/mq"
	"github.com/shaiso/Fabrika/internal/planner"
	"github.com/shaiso/Fabrika/internal/repo"
	"github.com/shaiso/Fabrika/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting fabrika-planner")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Создаём репозитории
	planRepo := repo.NewPlanRepo(pool)
	catalogRepo := repo.NewCatalogRepo(pool)
	workerRepo := repo.NewWorkerRepo(pool)

	// RabbitMQ
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Создаём planner
	p := planner.New(planner.Config{
		PlanRepo:    planRepo,
		CatalogRepo: catalogRepo,
		WorkerRepo:  workerRepo,
		Publisher:   publisher,
		Conn:        mqConn,
		Logger:      logger,
	})

	// Запускаем planner
	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start planner", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("PLANNER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем planner
	p.Stop()
	logger.Info("fabrika-planner stopped")
}
