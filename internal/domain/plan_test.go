package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPlanOrderHoursDefaults(t *testing.T) {
	o := PlanOrder{}
	start, end := o.Hours()
	if start != DefaultStartHour || end != DefaultEndHour {
		t.Errorf("expected defaults %d-%d, got %d-%d", DefaultStartHour, DefaultEndHour, start, end)
	}

	o = PlanOrder{StartHour: 9, EndHour: 17}
	if start, end = o.Hours(); start != 9 || end != 17 {
		t.Errorf("expected 9-17, got %d-%d", start, end)
	}
}

func TestPlanOrderValidate(t *testing.T) {
	valid := PlanOrder{
		Quantities: map[string]int{"Box": 2},
		Workers:    []string{"anna"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		order PlanOrder
	}{
		{"no products", PlanOrder{Workers: []string{"anna"}}},
		{"zero quantity", PlanOrder{Quantities: map[string]int{"Box": 0}, Workers: []string{"anna"}}},
		{"no workers", PlanOrder{Quantities: map[string]int{"Box": 1}}},
		{"inverted hours", PlanOrder{Quantities: map[string]int{"Box": 1}, Workers: []string{"anna"}, StartHour: 16, EndHour: 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.order.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPlanLifecycle(t *testing.T) {
	p := Plan{
		ID:        uuid.New(),
		Status:    PlanStatusPending,
		CreatedAt: time.Now(),
	}
	if p.IsFinished() {
		t.Fatal("pending plan must not be finished")
	}

	p.MarkRunning()
	if p.Status != PlanStatusRunning || p.StartedAt == nil {
		t.Fatalf("expected running status with start time, got %s", p.Status)
	}

	p.MarkSucceeded(&PlanResult{})
	if p.Status != PlanStatusSucceeded || p.FinishedAt == nil || p.Result == nil {
		t.Fatalf("expected succeeded status with result, got %s", p.Status)
	}
	if !p.IsFinished() {
		t.Error("succeeded plan must be finished")
	}
	if p.Duration() < 0 {
		t.Error("duration must be non-negative")
	}
}

func TestPlanMarkFailed(t *testing.T) {
	p := Plan{Status: PlanStatusRunning}
	p.MarkFailed("catalog cycle")
	if p.Status != PlanStatusFailed || p.Error != "catalog cycle" {
		t.Errorf("expected failed status with message, got %s %q", p.Status, p.Error)
	}
	if !p.IsFinished() {
		t.Error("failed plan must be finished")
	}
}

func TestStandingOrderIsDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name  string
		order StandingOrder
		want  bool
	}{
		{"due", StandingOrder{Enabled: true, NextDueAt: &past}, true},
		{"not yet", StandingOrder{Enabled: true, NextDueAt: &future}, false},
		{"disabled", StandingOrder{Enabled: false, NextDueAt: &past}, false},
		{"never scheduled", StandingOrder{Enabled: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.IsDue(now); got != tc.want {
				t.Errorf("IsDue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStandingOrderRecordPlan(t *testing.T) {
	s := StandingOrder{Enabled: true}
	planID := uuid.New()
	nextDue := time.Now().Add(time.Hour)

	s.RecordPlan(planID, nextDue)
	if s.LastPlanID == nil || *s.LastPlanID != planID {
		t.Error("last plan id must be recorded")
	}
	if s.NextDueAt == nil || !s.NextDueAt.Equal(nextDue) {
		t.Error("next due time must be recorded")
	}
	if s.LastPlanAt == nil {
		t.Error("last plan time must be recorded")
	}
}

func TestStandingOrderKind(t *testing.T) {
	cron := StandingOrder{CronExpr: "0 6 * * 1-5", IntervalSec: 60}
	if !cron.IsCron() || cron.IsInterval() {
		t.Error("cron expression takes precedence over interval")
	}

	interval := StandingOrder{IntervalSec: 60}
	if interval.IsCron() || !interval.IsInterval() {
		t.Error("interval order misclassified")
	}
}
