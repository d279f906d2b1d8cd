package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/shaiso/Fabrika/internal/domain"
)

// boxCatalog — сценарий из двух операций: B требует результат A.
func boxCatalog() domain.Catalog {
	return domain.Catalog{
		{
			Product:       "Box",
			Name:          "Box - Cut",
			Result:        "BOX_CUT",
			DurationSlots: 2,
			Weights:       domain.SkillSet{OpenPaper: 100},
		},
		{
			Product:       "Box",
			Name:          "Box - Fold",
			Result:        "BOX_FOLD",
			Requires:      []string{"BOX_CUT"},
			DurationSlots: 2,
			Weights:       domain.SkillSet{Bending: 80, Gluing: 20},
		},
	}
}

func testRoster() domain.Roster {
	return domain.Roster{
		{
			Name: "anna",
			Skills: domain.SkillSet{
				Bending: 1, Gluing: 1, Assembling: 1,
				EdgeScrap: 1, OpenPaper: 1, QualityControl: 1,
			},
		},
		{
			Name:   "boris",
			Skills: domain.SkillSet{Bending: 0.4, OpenPaper: 0.6},
		},
	}
}

func boxInput(seed int64) Input {
	return Input{
		Catalog: boxCatalog(),
		Roster:  testRoster(),
		Order: domain.PlanOrder{
			Quantities: map[string]int{"Box": 1},
			Workers:    []string{"anna", "boris"},
			Seed:       seed,
		},
	}
}

func TestBuildPlan_RejectsEmptyInput(t *testing.T) {
	cases := []struct {
		name  string
		order domain.PlanOrder
		want  error
	}{
		{
			name:  "no products",
			order: domain.PlanOrder{Workers: []string{"anna"}},
			want:  ErrEmptyOrder,
		},
		{
			name:  "no workers",
			order: domain.PlanOrder{Quantities: map[string]int{"Box": 1}},
			want:  ErrNoWorkers,
		},
		{
			name: "unknown product",
			order: domain.PlanOrder{
				Quantities: map[string]int{"Crate": 1},
				Workers:    []string{"anna"},
			},
			want: ErrUnknownProduct,
		},
		{
			name: "unknown worker",
			order: domain.PlanOrder{
				Quantities: map[string]int{"Box": 1},
				Workers:    []string{"ghost"},
			},
			want: ErrUnknownWorker,
		},
		{
			name: "non-positive quantity",
			order: domain.PlanOrder{
				Quantities: map[string]int{"Box": 0},
				Workers:    []string{"anna"},
			},
			want: ErrEmptyOrder,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPlan(Input{Catalog: boxCatalog(), Roster: testRoster(), Order: tc.order})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildPlan_ConfigErrorBeforeScheduling(t *testing.T) {
	// Цикл в каталоге отклоняет расчёт целиком — без частичного результата.
	catalog := domain.Catalog{
		{Product: "Box", Name: "A", Result: "R1", Requires: []string{"R2"}, DurationSlots: 1, Weights: domain.SkillSet{Bending: 100}},
		{Product: "Box", Name: "B", Result: "R2", Requires: []string{"R1"}, DurationSlots: 1, Weights: domain.SkillSet{Gluing: 100}},
	}
	in := Input{
		Catalog: catalog,
		Roster:  testRoster(),
		Order: domain.PlanOrder{
			Quantities: map[string]int{"Box": 1},
			Workers:    []string{"anna"},
			Seed:       1,
		},
	}

	result, err := BuildPlan(in)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
	if result != nil {
		t.Fatal("no partial result on configuration error")
	}
}

func TestBuildPlan_BoxScenario(t *testing.T) {
	// 2 задачи, 2 работника, 16 слотов: ceil(2/(2×16×0.8)) = 1 день,
	// обе операции должны завершиться.
	result, err := BuildPlan(boxInput(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.EstimatedDays != 1 {
		t.Errorf("expected 1 estimated day, got %d", result.Stats.EstimatedDays)
	}
	if result.Stats.TotalTasks != 2 {
		t.Errorf("expected 2 tasks, got %d", result.Stats.TotalTasks)
	}
	if result.Stats.CompletedTasks != 2 {
		t.Errorf("expected both tasks completed, got %d", result.Stats.CompletedTasks)
	}
	if result.Stats.CompletionPercentage != 100 {
		t.Errorf("expected 100%% completion, got %f", result.Stats.CompletionPercentage)
	}

	// Fold не может начаться раньше первого вклада в Cut.
	firstCut, firstFold := -1, -1
	for day := 1; day <= result.Schedule.Days; day++ {
		for slotIdx, slot := range result.Schedule.Slots {
			for _, worker := range result.Schedule.Workers {
				a, ok := result.Schedule.At(day, worker, slot)
				if !ok {
					continue
				}
				pos := day*1000 + slotIdx
				if a.Result == "BOX_CUT" && (firstCut == -1 || pos < firstCut) {
					firstCut = pos
				}
				if a.Result == "BOX_FOLD" && (firstFold == -1 || pos < firstFold) {
					firstFold = pos
				}
			}
		}
	}
	if firstCut == -1 {
		t.Fatal("Cut never scheduled")
	}
	if firstFold != -1 && firstFold <= firstCut {
		t.Errorf("Fold started at %d before Cut at %d", firstFold, firstCut)
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	// Одинаковое зерно — байт-в-байт одинаковый результат.
	first, err := BuildPlan(boxInput(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildPlan(boxInput(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed produced different plans")
	}
}

func TestBuildPlan_AggressiveWorkersSelected(t *testing.T) {
	result, err := BuildPlan(boxInput(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// max(1, int(2×0.3)) = 1 агрессивный работник в последний день.
	if len(result.Stats.AggressiveWorkers) != 1 {
		t.Errorf("expected 1 aggressive worker, got %v", result.Stats.AggressiveWorkers)
	}

	for _, ws := range result.WorkerStats {
		if ws.Aggressiveness < 0.2 || ws.Aggressiveness > 0.8 {
			t.Errorf("aggressiveness out of [0.2, 0.8]: %f", ws.Aggressiveness)
		}
	}
}

func TestEstimateDays(t *testing.T) {
	cases := []struct {
		tasks, workers, slots int
		want                  int
	}{
		{4, 2, 16, 1},   // сценарий из spec: ceil(4/25.6) = 1
		{0, 2, 16, 1},   // минимум один день
		{26, 2, 16, 2},  // ceil(26/25.6) = 2
		{100, 1, 16, 8}, // ceil(100/12.8) = 8
	}

	for _, tc := range cases {
		if got := estimateDays(tc.tasks, tc.workers, tc.slots); got != tc.want {
			t.Errorf("estimateDays(%d, %d, %d) = %d, want %d", tc.tasks, tc.workers, tc.slots, got, tc.want)
		}
	}
}

func TestCommit_ProgressAndCompletion(t *testing.T) {
	catalog := boxCatalog()
	st := newRunState(catalog, []string{"Box"}, map[string]int{"Box": 1})
	processing, err := ResolveOrder(st.defs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.processing = processing
	st.seedPool()

	slots := TimeSlots(8, 16)
	sched := domain.NewSchedule(1, slots, []string{"anna"})
	rng := rand.New(rand.NewSource(1))
	stats := newWorkerStats([]domain.Worker{testRoster()[0]}, rng)
	worker := &testRoster()[0]

	cut := st.byName["Box - Cut"][0]

	// Обычный работник: полная номинальная длительность, задача
	// завершается за одно назначение.
	if err := commit(st, sched, stats["anna"], worker, cut, false, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cut.progress < 100 || !cut.completed {
		t.Errorf("expected completed task, progress=%f completed=%v", cut.progress, cut.completed)
	}
	if st.pool.contains(cut) {
		t.Error("completed task must leave the eligible pool")
	}
	if !st.results["BOX_CUT"].completed {
		t.Error("result state must be completed")
	}
	if got := stats["anna"].TasksCompleted; got != 1 {
		t.Errorf("expected 1.0 task completed, got %f", got)
	}

	// Обе ячейки заняты, повторная запись невозможна.
	if _, ok := sched.At(1, "anna", "08:00"); !ok {
		t.Error("slot 08:00 must be occupied")
	}
	if _, ok := sched.At(1, "anna", "08:30"); !ok {
		t.Error("slot 08:30 must be occupied")
	}
}

func TestCommit_AggressivePartial(t *testing.T) {
	catalog := boxCatalog()
	st := newRunState(catalog, []string{"Box"}, map[string]int{"Box": 1})
	processing, err := ResolveOrder(st.defs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.processing = processing
	st.seedPool()

	slots := TimeSlots(8, 16)
	sched := domain.NewSchedule(1, slots, []string{"anna"})
	stats := map[string]*domain.WorkerStats{
		"anna": {
			ProductShare:   make(map[string]float64),
			TimeOnProduct:  make(map[string]int),
			Aggressiveness: 0.5,
		},
	}
	worker := &testRoster()[0]

	cut := st.byName["Box - Cut"][0]

	// int(2 × 0.5 × 0.4) = 0 → минимум 1 слот, прогресс 50%.
	if err := commit(st, sched, stats["anna"], worker, cut, true, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cut.progress != 50 {
		t.Errorf("expected 50%% progress, got %f", cut.progress)
	}
	if cut.completed {
		t.Error("task must stay in progress")
	}
	if !st.results["BOX_CUT"].started {
		t.Error("result must be marked started")
	}

	// Частично начатый результат открывает зависимую задачу
	// при следующем пополнении пула.
	st.refreshPool()
	fold := st.byName["Box - Fold"][0]
	if !st.pool.contains(fold) {
		t.Error("dependent task must enter the pool once prerequisite started")
	}

	// Вклад ≥20% по задаче с зависимыми — счёт прогрессии растёт.
	if stats["anna"].ProgressionScore != 1 {
		t.Errorf("expected progression score 1, got %d", stats["anna"].ProgressionScore)
	}
}
