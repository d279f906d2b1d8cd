package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики сервиса расчёта. Экспортируются на /metrics в main.
var (
	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fabrika_plans_total",
		Help: "Количество обработанных планов по статусу завершения.",
	}, []string{"status"})

	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fabrika_plan_duration_seconds",
		Help:    "Длительность расчёта одного плана.",
		Buckets: prometheus.DefBuckets,
	})

	planCompletion = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fabrika_plan_completion_percent",
		Help:    "Процент завершения рассчитанных планов.",
		Buckets: []float64{25, 50, 75, 90, 95, 99, 100},
	})
)
