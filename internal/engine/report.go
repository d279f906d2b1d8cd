package engine

import (
	"sort"

	"github.com/shaiso/Fabrika/internal/domain"
)

// buildStats агрегирует сводную статистику по финальному состоянию.
// Чистое чтение: никаких мутаций экземпляров и статистики работников.
func buildStats(st *runState, days int, products, workers []string, stats map[string]*domain.WorkerStats, lastAggressive map[string]bool) domain.CompletionStats {
	cs := domain.CompletionStats{
		TotalTasks:     len(st.instances),
		EstimatedDays:  days,
		TasksByDay:     make(map[int]int, days),
		TasksByProduct: make(map[string]int, len(products)),
		WorkerTasks:    make(map[string]float64, len(workers)),
	}

	for day := 1; day <= days; day++ {
		cs.TasksByDay[day] = 0
	}
	for _, p := range products {
		cs.TasksByProduct[p] = 0
	}

	for _, inst := range st.instances {
		if inst.completed {
			cs.CompletedTasks++
			cs.TasksByProduct[inst.def.Product]++
		}
		if inst.firstDay > 0 {
			cs.TasksByDay[inst.firstDay]++
		}
	}

	if cs.TotalTasks > 0 {
		cs.CompletionPercentage = float64(cs.CompletedTasks) / float64(cs.TotalTasks) * 100
	}

	for _, name := range workers {
		cs.WorkerTasks[name] = stats[name].TasksCompleted
		if lastAggressive[name] {
			cs.AggressiveWorkers = append(cs.AggressiveWorkers, name)
		}
	}

	return cs
}

// workerReports строит производные отчёты по работникам.
// Главный продукт — максимум затраченного времени; ничьи разрешаются
// лексикографически, чтобы отчёт был детерминированным.
func workerReports(workers []string, stats map[string]*domain.WorkerStats) []domain.WorkerReport {
	reports := make([]domain.WorkerReport, 0, len(workers))
	for _, name := range workers {
		ws := stats[name]
		reports = append(reports, domain.WorkerReport{
			Worker:              name,
			TasksCompleted:      ws.TasksCompleted,
			ProductsWorked:      len(ws.ProductShare),
			SkillUtilizationPct: ws.SkillUtilization * 100,
			MainProduct:         mainProduct(ws.TimeOnProduct),
		})
	}
	return reports
}

// mainProduct возвращает продукт с наибольшим затраченным временем.
func mainProduct(timeOnProduct map[string]int) string {
	if len(timeOnProduct) == 0 {
		return ""
	}
	products := make([]string, 0, len(timeOnProduct))
	for p := range timeOnProduct {
		products = append(products, p)
	}
	sort.Strings(products)

	best := products[0]
	for _, p := range products[1:] {
		if timeOnProduct[p] > timeOnProduct[best] {
			best = p
		}
	}
	return best
}
