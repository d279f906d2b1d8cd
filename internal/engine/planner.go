package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/shaiso/Fabrika/internal/domain"
)

// Параметры жадного цикла назначения.
const (
	// utilizationFactor — эвристика оценки дней: считаем, что полезно
	// занято 80% всех ячеек. Это оценка, не гарантия: при нехватке
	// дней незавершённые задачи остаются в статистике, горизонт
	// не расширяется.
	utilizationFactor = 0.8

	// aggressiveShare — доля работников, действующих агрессивно.
	aggressiveShare = 0.3

	// aggressiveCommit — множитель доли задачи, которую агрессивный
	// работник выполняет перед переходом дальше.
	aggressiveCommit = 0.4

	// unlockThreshold — минимальный вклад (в процентах), засчитываемый
	// в счёт прогрессии за разблокирование зависимых задач.
	unlockThreshold = 20.0
)

// Input — вход расчёта плана.
type Input struct {
	// Catalog — справочник операций.
	Catalog domain.Catalog

	// Roster — полный список работников.
	Roster domain.Roster

	// Order — производственный заказ (количества, работники, зерно).
	Order domain.PlanOrder
}

// BuildPlan выполняет полный расчёт расписания по заказу.
//
// Чистая функция: результат полностью определяется входом. Ошибки
// конфигурации и пустого входа возвращаются до каких-либо мутаций
// состояния. Незавершённые задачи не считаются ошибкой — они видны
// в статистике как процент завершения меньше 100.
func BuildPlan(in Input) (*domain.PlanResult, error) {
	products, workers, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	st := newRunState(in.Catalog, products, in.Order.Quantities)

	processing, err := ResolveOrder(st.defs)
	if err != nil {
		return nil, err
	}
	st.processing = processing

	startHour, endHour := in.Order.Hours()
	slots := TimeSlots(startHour, endHour)

	days := estimateDays(len(st.instances), len(workers), len(slots))
	sched := domain.NewSchedule(days, slots, workerNames(workers))

	rng := rand.New(rand.NewSource(in.Order.Seed))
	stats := newWorkerStats(workers, rng)

	var aggressive map[string]bool
	for day := 1; day <= days; day++ {
		aggressive = selectAggressive(day, workers, stats, rng)

		st.seedPool()

		for slotIdx, slot := range slots {
			free := sched.FreeWorkers(day, slot)
			if len(free) == 0 || len(st.pool.items) == 0 {
				continue
			}

			// Агрессивные работники ходят первыми, внутри групп
			// сохраняется порядок списка.
			for _, name := range partitionAggressive(free, aggressive) {
				worker, _ := in.Roster.ByName(name)
				if err := assignBest(st, sched, stats, worker, aggressive[name], day, slotIdx); err != nil {
					return nil, err
				}
			}

			// Пул пополняется после каждого слота: задачи становятся
			// доступными в середине дня, как только разблокированы.
			st.refreshPool()
		}
	}

	result := &domain.PlanResult{
		Schedule:      sched,
		Stats:         buildStats(st, days, products, workerNames(workers), stats, aggressive),
		WorkerStats:   stats,
		WorkerReports: workerReports(workerNames(workers), stats),
	}
	return result, nil
}

// ValidateOrder проверяет заказ без запуска расчёта: состав заказа,
// известность продуктов и работников, разрешимость зависимостей.
// Используется API для отклонения битых заказов до постановки в очередь.
func ValidateOrder(in Input) error {
	products, _, err := validateInput(in)
	if err != nil {
		return err
	}
	st := newRunState(in.Catalog, products, in.Order.Quantities)
	_, err = ResolveOrder(st.defs)
	return err
}

// validateInput проверяет заказ против каталога и списка работников.
// Возвращает заказанные продукты в порядке каталога и выбранных
// работников в порядке заказа.
func validateInput(in Input) ([]string, []domain.Worker, error) {
	if len(in.Order.Quantities) == 0 {
		return nil, nil, ErrEmptyOrder
	}
	if len(in.Order.Workers) == 0 {
		return nil, nil, ErrNoWorkers
	}

	// Продукты в порядке каталога — обход детерминирован.
	products := make([]string, 0, len(in.Order.Quantities))
	for _, p := range in.Catalog.Products() {
		if _, ok := in.Order.Quantities[p]; ok {
			products = append(products, p)
		}
	}
	if len(products) != len(in.Order.Quantities) {
		for _, p := range sortedKeys(in.Order.Quantities) {
			if len(in.Catalog.ForProduct(p)) == 0 {
				return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProduct, p)
			}
		}
	}
	for _, p := range products {
		if in.Order.Quantities[p] <= 0 {
			return nil, nil, fmt.Errorf("%w: product %q has non-positive quantity", ErrEmptyOrder, p)
		}
	}

	workers := make([]domain.Worker, 0, len(in.Order.Workers))
	for _, name := range in.Order.Workers {
		w, ok := in.Roster.ByName(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownWorker, name)
		}
		workers = append(workers, *w)
	}

	return products, workers, nil
}

// estimateDays оценивает число производственных дней:
// ceil(задачи / (работники × слоты × 0.8)), минимум 1.
func estimateDays(totalTasks, workerCount, slotCount int) int {
	capacity := float64(workerCount*slotCount) * utilizationFactor
	days := int(math.Ceil(float64(totalTasks) / capacity))
	if days < 1 {
		days = 1
	}
	return days
}

// selectAggressive выбирает агрессивных работников на день.
//
// День 1 — случайные ~30% списка (минимум один). Дальше — верхние 30%
// по накопленному счёту прогрессии: петля обратной связи, поощряющая
// тех, кто разблокировал больше всего зависимых задач. Ничьи по счёту
// разрешаются порядком списка.
func selectAggressive(day int, workers []domain.Worker, stats map[string]*domain.WorkerStats, rng *rand.Rand) map[string]bool {
	n := len(workers)
	k := int(float64(n) * aggressiveShare)
	if k < 1 {
		k = 1
	}

	chosen := make(map[string]bool, k)
	if day == 1 {
		for _, idx := range rng.Perm(n)[:k] {
			chosen[workers[idx].Name] = true
		}
		return chosen
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return stats[workers[order[a]].Name].ProgressionScore > stats[workers[order[b]].Name].ProgressionScore
	})
	for _, idx := range order[:k] {
		chosen[workers[idx].Name] = true
	}
	return chosen
}

// partitionAggressive упорядочивает свободных работников:
// сначала агрессивные, затем остальные, внутри групп исходный порядок.
func partitionAggressive(free []string, aggressive map[string]bool) []string {
	ordered := make([]string, 0, len(free))
	for _, name := range free {
		if aggressive[name] {
			ordered = append(ordered, name)
		}
	}
	for _, name := range free {
		if !aggressive[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

// assignBest находит для работника лучшую доступную задачу и назначает её.
//
// Политика допуска зависит от режима работника: агрессивному достаточно
// одного начатого требования, обычному нужны все требования завершёнными.
// Среди допущенных кандидатов побеждает максимальная оценка; при ничьей —
// первая встреченная задача (стабильный обход пула слева направо).
func assignBest(st *runState, sched *domain.Schedule, stats map[string]*domain.WorkerStats, worker *domain.Worker, isAggressive bool, day, slotIdx int) error {
	ws := stats[worker.Name]

	var best *taskInstance
	bestScore := -1.0
	for _, cand := range st.pool.items {
		if len(cand.def.Requires) > 0 {
			if isAggressive {
				if !st.anyReqStarted(cand) {
					continue
				}
			} else if !st.allReqsCompleted(cand) {
				continue
			}
		}

		dependents := 0
		if rs := st.results[cand.def.Result]; rs != nil {
			dependents = len(rs.requiredFor)
		}

		score := candidateScore(worker, cand.def, ws, isAggressive, dependents)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if best == nil {
		return nil
	}

	return commit(st, sched, ws, worker, best, isAggressive, day, slotIdx)
}

// commit выделяет слоты под задачу и обновляет всё состояние расчёта.
func commit(st *runState, sched *domain.Schedule, ws *domain.WorkerStats, worker *domain.Worker, task *taskInstance, isAggressive bool, day, slotIdx int) error {
	remaining := len(sched.Slots) - slotIdx
	nominal := task.def.DurationSlots

	// Агрессивные работники делают минимум, чтобы открыть зависимые
	// задачи; обычные берут полную длительность. Обе ветви ограничены
	// остатком слотов дня.
	var commitSlots int
	if isAggressive {
		commitSlots = int(float64(nominal) * ws.Aggressiveness * aggressiveCommit)
		if commitSlots > remaining {
			commitSlots = remaining
		}
		if commitSlots < 1 {
			commitSlots = 1
		}
	} else {
		commitSlots = nominal
		if commitSlots > remaining {
			commitSlots = remaining
		}
	}

	assignment := domain.Assignment{
		Product: task.def.Product,
		Task:    task.def.Name,
		Result:  task.def.Result,
	}
	for i := 0; i < commitSlots; i++ {
		if err := sched.Place(day, worker.Name, sched.Slots[slotIdx+i], assignment); err != nil {
			return fmt.Errorf("place assignment: %w", err)
		}
	}

	progressDelta := float64(commitSlots) / float64(nominal) * 100

	// Прогресс задачи только растёт.
	task.progress += progressDelta
	task.workers = append(task.workers, worker.Name)
	if task.firstDay == 0 {
		task.firstDay = day
		task.firstSlot = slotIdx
	}

	rs := st.results[task.def.Result]
	rs.started = true

	// Вклад от 20% открывает зависимые задачи — агрессивный работник
	// получает за это счёт прогрессии.
	if isAggressive && progressDelta >= unlockThreshold && len(rs.requiredFor) > 0 {
		ws.ProgressionScore += len(rs.requiredFor)
	}

	if !task.completed && task.progress >= 100 {
		task.completed = true
		rs.completed = true
		st.pool.remove(task)
	}

	// Накопительная статистика работника.
	share := progressDelta / 100
	ws.History = append(ws.History, domain.Contribution{
		Result:   task.def.Result,
		Product:  task.def.Product,
		Task:     task.def.Name,
		Progress: progressDelta,
	})
	ws.ProductShare[task.def.Product] += share
	ws.TasksCompleted += share
	ws.CurrentTask = task.def.Name
	ws.CurrentProduct = task.def.Product
	ws.TimeOnProduct[task.def.Product] += commitSlots

	// Бегущее средневзвешенное соответствия навыков.
	match := SkillMatch(worker.Skills, task.def.Weights)
	previous := ws.TasksCompleted - share
	if previous > 0 {
		ws.SkillUtilization = (ws.SkillUtilization*previous + match*share) / ws.TasksCompleted
	} else {
		ws.SkillUtilization = match
	}

	return nil
}

// workerNames возвращает имена в порядке среза.
func workerNames(workers []domain.Worker) []string {
	names := make([]string, len(workers))
	for i := range workers {
		names[i] = workers[i].Name
	}
	return names
}

// sortedKeys возвращает ключи карты в лексикографическом порядке.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
