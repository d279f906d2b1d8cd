package engine

import (
	"math"
	"testing"

	"github.com/shaiso/Fabrika/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSkillMatch_WeightedAverage(t *testing.T) {
	skills := domain.SkillSet{Bending: 0.8, Gluing: 0.4}
	weights := domain.SkillSet{Bending: 50, Gluing: 100}

	// (0.8×0.5 + 0.4×1.0) / (0.5 + 1.0) = 0.8/1.5
	got := SkillMatch(skills, weights)
	want := 0.8 / 1.5
	if !almostEqual(got, want) {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestSkillMatch_IgnoresIrrelevantDimensions(t *testing.T) {
	// Нерелевантные измерения (вес 0) не влияют на результат,
	// каким бы ни был уровень навыка.
	weights := domain.SkillSet{Assembling: 100}

	a := SkillMatch(domain.SkillSet{Assembling: 0.5, Bending: 0.0}, weights)
	b := SkillMatch(domain.SkillSet{Assembling: 0.5, Bending: 1.0}, weights)
	if !almostEqual(a, b) {
		t.Errorf("irrelevant dimension changed score: %f vs %f", a, b)
	}
	if !almostEqual(a, 0.5) {
		t.Errorf("expected 0.5, got %f", a)
	}
}

func TestSkillMatch_AllZeroWeights(t *testing.T) {
	// Все шесть весов нулевые — соответствие 0, деления на ноль нет.
	got := SkillMatch(domain.SkillSet{Bending: 1, Gluing: 1}, domain.SkillSet{})
	if got != 0 {
		t.Errorf("expected 0 for all-zero weights, got %f", got)
	}
}

func TestCandidateScore_Bonuses(t *testing.T) {
	def := &domain.TaskDef{
		Product:       "Box",
		Name:          "A",
		Result:        "R1",
		DurationSlots: 2,
		Weights:       domain.SkillSet{Bending: 100},
	}
	worker := &domain.Worker{
		Name:   "vera",
		Skills: domain.SkillSet{Bending: 1.0},
	}

	base := candidateScore(worker, def, &domain.WorkerStats{}, false, 0)
	if !almostEqual(base, 0.6) {
		t.Fatalf("expected base 0.6, got %f", base)
	}

	// Непрерывность: +0.10 за текущий продукт.
	ws := &domain.WorkerStats{CurrentProduct: "Box"}
	if got := candidateScore(worker, def, ws, false, 0); !almostEqual(got, 0.7) {
		t.Errorf("continuity bonus: expected 0.7, got %f", got)
	}

	// Предпочтения: 0.05 / 0.03 / 0.02 по позициям.
	prefs := []struct {
		rank  int
		bonus float64
	}{{0, 0.05}, {1, 0.03}, {2, 0.02}}
	for _, p := range prefs {
		w := *worker
		w.Favorites[p.rank] = "Box"
		if got := candidateScore(&w, def, &domain.WorkerStats{}, false, 0); !almostEqual(got, 0.6+p.bonus) {
			t.Errorf("favorite %d: expected %f, got %f", p.rank+1, 0.6+p.bonus, got)
		}
	}
}

func TestCandidateScore_ProgressionBonus(t *testing.T) {
	def := &domain.TaskDef{
		Product:       "Box",
		Name:          "A",
		Result:        "R1",
		DurationSlots: 2,
		Weights:       domain.SkillSet{Bending: 100},
	}
	worker := &domain.Worker{Name: "vera", Skills: domain.SkillSet{Bending: 1.0}}
	ws := &domain.WorkerStats{Aggressiveness: 0.5}

	// Неагрессивный работник бонуса не получает.
	if got := candidateScore(worker, def, ws, false, 3); !almostEqual(got, 0.6) {
		t.Errorf("non-aggressive must get no progression bonus, got %f", got)
	}

	// Задача без зависимых — бонуса нет даже в агрессивном режиме.
	if got := candidateScore(worker, def, ws, true, 0); !almostEqual(got, 0.6) {
		t.Errorf("no dependents must mean no bonus, got %f", got)
	}

	// 0.25 × 0.5 × 3 = 0.375 сверх базы.
	if got := candidateScore(worker, def, ws, true, 3); !almostEqual(got, 0.6+0.375) {
		t.Errorf("expected %f, got %f", 0.6+0.375, got)
	}
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots(8, 16)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0] != "08:00" || slots[1] != "08:30" || slots[15] != "15:30" {
		t.Errorf("unexpected slot boundaries: %v", slots)
	}
}
