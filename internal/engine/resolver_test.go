package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Fabrika/internal/domain"
)

func defsChain() []domain.TaskDef {
	// C требует B, B требует A.
	return []domain.TaskDef{
		{Product: "Box", Name: "C", Result: "R3", Requires: []string{"R2"}, DurationSlots: 1},
		{Product: "Box", Name: "A", Result: "R1", DurationSlots: 1},
		{Product: "Box", Name: "B", Result: "R2", Requires: []string{"R1"}, DurationSlots: 1},
	}
}

func TestResolveOrder_Chain(t *testing.T) {
	order, err := ResolveOrder(defsChain())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(order))
	}

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	if pos["A"] > pos["B"] || pos["B"] > pos["C"] {
		t.Errorf("prerequisites must come first, got %v", order)
	}
}

func TestResolveOrder_Diamond(t *testing.T) {
	// B и C требуют A, D требует B и C.
	defs := []domain.TaskDef{
		{Product: "Box", Name: "D", Result: "R4", Requires: []string{"R2", "R3"}, DurationSlots: 1},
		{Product: "Box", Name: "B", Result: "R2", Requires: []string{"R1"}, DurationSlots: 1},
		{Product: "Box", Name: "C", Result: "R3", Requires: []string{"R1"}, DurationSlots: 1},
		{Product: "Box", Name: "A", Result: "R1", DurationSlots: 1},
	}

	order, err := ResolveOrder(defs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	for _, dep := range []struct{ before, after string }{
		{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"},
	} {
		if pos[dep.before] > pos[dep.after] {
			t.Errorf("%s must come before %s, got %v", dep.before, dep.after, order)
		}
	}
}

func TestResolveOrder_Deterministic(t *testing.T) {
	first, err := ResolveOrder(defsChain())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ResolveOrder(defsChain())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("order not deterministic: %v vs %v", first, again)
			}
		}
	}
}

func TestResolveOrder_UnknownResult(t *testing.T) {
	// B требует результат, который никто не производит —
	// ошибка конфигурации, не молчаливый пропуск.
	defs := []domain.TaskDef{
		{Product: "Box", Name: "A", Result: "R1", DurationSlots: 1},
		{Product: "Box", Name: "B", Result: "R2", Requires: []string{"NOPE"}, DurationSlots: 1},
	}

	_, err := ResolveOrder(defs)
	if !errors.Is(err, ErrUnknownResult) {
		t.Fatalf("expected ErrUnknownResult, got %v", err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatal("expected *ConfigError")
	}
	if cfgErr.Task != "B" {
		t.Errorf("expected offending task B, got %q", cfgErr.Task)
	}
	if cfgErr.Result != "NOPE" {
		t.Errorf("expected offending result NOPE, got %q", cfgErr.Result)
	}
}

func TestResolveOrder_Cycle(t *testing.T) {
	// A требует результат B, B требует результат A — цикл.
	defs := []domain.TaskDef{
		{Product: "Box", Name: "A", Result: "R1", Requires: []string{"R2"}, DurationSlots: 1},
		{Product: "Box", Name: "B", Result: "R2", Requires: []string{"R1"}, DurationSlots: 1},
	}

	_, err := ResolveOrder(defs)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestResolveOrder_SelfCycle(t *testing.T) {
	defs := []domain.TaskDef{
		{Product: "Box", Name: "A", Result: "R1", Requires: []string{"R1"}, DurationSlots: 1},
	}

	_, err := ResolveOrder(defs)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}
