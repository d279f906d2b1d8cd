package domain

import (
	"strings"
	"testing"
)

func TestSchedulePlaceRejectsDoubleBooking(t *testing.T) {
	s := NewSchedule(1, []string{"08:00", "08:30"}, []string{"anna"})
	a := Assignment{Product: "Box", Task: "Box - Cut", Result: "BOX_CUT"}

	if err := s.Place(1, "anna", "08:00", a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Place(1, "anna", "08:00", a); err == nil {
		t.Fatal("expected error on occupied cell")
	}

	// Соседняя ячейка остаётся свободной.
	if err := s.Place(1, "anna", "08:30", a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScheduleAt(t *testing.T) {
	s := NewSchedule(1, []string{"08:00"}, []string{"anna"})
	if _, ok := s.At(1, "anna", "08:00"); ok {
		t.Fatal("empty grid must have no assignments")
	}

	want := Assignment{Product: "Box", Task: "Box - Cut", Result: "BOX_CUT"}
	if err := s.Place(1, "anna", "08:00", want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := s.At(1, "anna", "08:00")
	if !ok || got != want {
		t.Errorf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}
}

func TestScheduleFreeWorkersKeepsOrder(t *testing.T) {
	s := NewSchedule(1, []string{"08:00"}, []string{"anna", "boris", "vera"})
	if err := s.Place(1, "boris", "08:00", Assignment{Product: "Box"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	free := s.FreeWorkers(1, "08:00")
	if len(free) != 2 || free[0] != "anna" || free[1] != "vera" {
		t.Errorf("expected [anna vera], got %v", free)
	}
}

func TestScheduleWriteCSV(t *testing.T) {
	s := NewSchedule(2, []string{"08:00", "08:30"}, []string{"anna", "boris"})
	cut := Assignment{Product: "Box", Task: "Box - Cut", Result: "BOX_CUT"}
	fold := Assignment{Product: "Box", Task: "Box - Fold", Result: "BOX_FOLD"}

	// Заполняем не по порядку — выгрузка всё равно детерминирована.
	if err := s.Place(2, "boris", "08:00", fold); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Place(1, "anna", "08:30", cut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Place(1, "anna", "08:00", cut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	if err := s.WriteCSV(&sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Day,Worker,Time,Product,Task,TaskID\n" +
		"1,anna,08:00,Box,Box - Cut,BOX_CUT\n" +
		"1,anna,08:30,Box,Box - Cut,BOX_CUT\n" +
		"2,boris,08:00,Box,Box - Fold,BOX_FOLD\n"
	if sb.String() != want {
		t.Errorf("unexpected csv output:\n%s", sb.String())
	}
}
