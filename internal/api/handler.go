package api

import (
	"log/slog"

	"github.com/shaiso/Fabrika/internal/mq"
	"github.com/shaiso/Fabrika/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	catalogRepo  *repo.CatalogRepo
	workerRepo   *repo.WorkerRepo
	planRepo     *repo.PlanRepo
	standingRepo *repo.StandingRepo
	publisher    *mq.Publisher
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	CatalogRepo  *repo.CatalogRepo
	WorkerRepo   *repo.WorkerRepo
	PlanRepo     *repo.PlanRepo
	StandingRepo *repo.StandingRepo
	Publisher    *mq.Publisher
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		catalogRepo:  cfg.CatalogRepo,
		workerRepo:   cfg.WorkerRepo,
		planRepo:     cfg.PlanRepo,
		standingRepo: cfg.StandingRepo,
		publisher:    cfg.Publisher,
		logger:       cfg.Logger,
	}
}
