package engine

import (
	"math/rand"

	"github.com/shaiso/Fabrika/internal/domain"
)

// taskInstance — один конкретный экземпляр работы:
// (продукт, повтор количества, определение операции).
//
// Создаётся один раз на каждую единицу заказанного количества,
// мутируется планировщиком, никогда не удаляется (нужен отчётности).
// Инвариант: progress не убывает; переходы не-начата → в-работе →
// завершена происходят ровно один раз, обратных переходов нет.
type taskInstance struct {
	// def — определение операции из каталога.
	def *domain.TaskDef

	// unit — номер повтора в рамках заказанного количества (с 1).
	unit int

	// progress — накопленный процент выполнения (может превышать 100).
	progress float64

	// completed — true, как только progress достиг 100. Необратимо.
	completed bool

	// workers — работники, внёсшие вклад, в порядке назначения.
	workers []string

	// firstDay, firstSlot — день и слот первого назначения.
	// Нулевые значения (0, -1) — экземпляр ещё не начат.
	firstDay  int
	firstSlot int
}

// resultState — состояние зависимостей, ключ — идентификатор результата.
//
// Несколько экземпляров могут производить один результат (количество > 1):
// результат считается начатым/завершённым, как только начат/завершён
// любой из них — это сохраняет семантику частичного выполнения.
type resultState struct {
	// requiredFor — результаты экземпляров, требующих этот результат.
	// Дубликаты сохраняются: длина списка равна числу зависимых
	// экземпляров и используется в бонусе прогрессии.
	requiredFor []string

	// started — по результату есть хоть какой-то прогресс.
	started bool

	// completed — результат полностью готов.
	completed bool
}

// eligiblePool — пул задач, доступных для назначения.
//
// Держит внешний порядок вставки (ничьи в оценке разрешаются в пользу
// первой встреченной задачи) и индекс для O(1) проверки членства.
type eligiblePool struct {
	items []*taskInstance
	index map[*taskInstance]bool
}

func newEligiblePool() *eligiblePool {
	return &eligiblePool{index: make(map[*taskInstance]bool)}
}

// add добавляет задачу, если её ещё нет в пуле.
func (p *eligiblePool) add(t *taskInstance) {
	if p.index[t] {
		return
	}
	p.items = append(p.items, t)
	p.index[t] = true
}

// contains проверяет членство за O(1).
func (p *eligiblePool) contains(t *taskInstance) bool {
	return p.index[t]
}

// remove удаляет задачу из пула с сохранением порядка остальных.
func (p *eligiblePool) remove(t *taskInstance) {
	if !p.index[t] {
		return
	}
	delete(p.index, t)
	for i, item := range p.items {
		if item == t {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// reset очищает пул.
func (p *eligiblePool) reset() {
	p.items = p.items[:0]
	clear(p.index)
}

// runState — всё изменяемое состояние одного расчёта.
//
// Принадлежит исключительно планировщику на время расчёта; между
// расчётами состояние не переиспользуется.
type runState struct {
	// defs — участвующие определения операций (по одному на имя),
	// в порядке каталога.
	defs []domain.TaskDef

	// processing — порядок обработки имён операций от резолвера.
	processing []string

	// instances — все экземпляры задач в порядке создания.
	instances []*taskInstance

	// byName — экземпляры, сгруппированные по имени операции.
	byName map[string][]*taskInstance

	// results — состояние зависимостей по идентификаторам результатов.
	results map[string]*resultState

	// pool — пул доступных задач.
	pool *eligiblePool
}

// newRunState разворачивает заказ в экземпляры задач и строит
// состояние зависимостей. Порядок обработки (processing) заполняет
// планировщик после прогона резолвера по st.defs.
//
// products — заказанные продукты в порядке каталога, quantities —
// количества. Порядок создания экземпляров детерминирован: продукты
// в порядке каталога, операции в порядке каталога, повторы по номеру.
func newRunState(catalog domain.Catalog, products []string, quantities map[string]int) *runState {
	st := &runState{
		byName:  make(map[string][]*taskInstance),
		results: make(map[string]*resultState),
		pool:    newEligiblePool(),
	}

	seen := make(map[string]bool)
	for _, product := range products {
		for _, def := range catalog.ForProduct(product) {
			if !seen[def.Name] {
				seen[def.Name] = true
				st.defs = append(st.defs, def)
			}
			d := def
			for unit := 1; unit <= quantities[product]; unit++ {
				inst := &taskInstance{def: &d, unit: unit, firstSlot: -1}
				st.instances = append(st.instances, inst)
				st.byName[d.Name] = append(st.byName[d.Name], inst)
				if st.results[d.Result] == nil {
					st.results[d.Result] = &resultState{}
				}
			}
		}
	}

	// Обратные рёбра: кто зависит от каждого результата.
	for _, inst := range st.instances {
		for _, req := range inst.def.Requires {
			rs := st.results[req]
			if rs == nil {
				rs = &resultState{}
				st.results[req] = rs
			}
			rs.requiredFor = append(rs.requiredFor, inst.def.Result)
		}
	}

	return st
}

// anyReqStarted возвращает true, если хотя бы одно требование экземпляра
// начато или завершено (агрессивный путь допуска).
func (st *runState) anyReqStarted(t *taskInstance) bool {
	for _, req := range t.def.Requires {
		if rs := st.results[req]; rs != nil && (rs.started || rs.completed) {
			return true
		}
	}
	return false
}

// allReqsCompleted возвращает true, если все требования экземпляра
// полностью завершены (обычный путь допуска).
func (st *runState) allReqsCompleted(t *taskInstance) bool {
	for _, req := range t.def.Requires {
		if rs := st.results[req]; rs == nil || !rs.completed {
			return false
		}
	}
	return true
}

// seedPool наполняет пул в начале дня: сперва незавершённые задачи без
// требований в порядке обработки, затем задачи, у которых начато хотя
// бы одно требование.
func (st *runState) seedPool() {
	st.pool.reset()

	for _, name := range st.processing {
		for _, inst := range st.byName[name] {
			if !inst.completed && len(inst.def.Requires) == 0 {
				st.pool.add(inst)
			}
		}
	}

	for _, inst := range st.instances {
		if inst.completed || st.pool.contains(inst) {
			continue
		}
		if len(inst.def.Requires) > 0 && st.anyReqStarted(inst) {
			st.pool.add(inst)
		}
	}
}

// refreshPool дополняет пул после слота: задачи без требований и задачи
// с начатым требованием становятся доступными в середине дня, как
// только кто-то продвинул блокирующую операцию.
func (st *runState) refreshPool() {
	for _, inst := range st.instances {
		if inst.completed || st.pool.contains(inst) {
			continue
		}
		if len(inst.def.Requires) == 0 || st.anyReqStarted(inst) {
			st.pool.add(inst)
		}
	}
}

// newWorkerStats инициализирует статистику работников.
// Коэффициент агрессивности разыгрывается один раз на расчёт,
// в порядке списка работников — порядок фиксирован для детерминизма.
func newWorkerStats(workers []domain.Worker, rng *rand.Rand) map[string]*domain.WorkerStats {
	stats := make(map[string]*domain.WorkerStats, len(workers))
	for i := range workers {
		stats[workers[i].Name] = &domain.WorkerStats{
			ProductShare:   make(map[string]float64),
			TimeOnProduct:  make(map[string]int),
			Aggressiveness: 0.2 + rng.Float64()*0.6,
		}
	}
	return stats
}
