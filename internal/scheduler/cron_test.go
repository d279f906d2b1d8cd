package scheduler

import (
	"testing"
	"time"

	"github.com/shaiso/Fabrika/internal/domain"
)

func TestCalculateNextDue_Interval(t *testing.T) {
	order := &domain.StandingOrder{
		IntervalSec: 3600,
		Timezone:    "UTC",
	}
	from := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(order, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := from.Add(time.Hour)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestCalculateNextDue_Cron(t *testing.T) {
	// По будням в 6:00.
	order := &domain.StandingOrder{
		CronExpr: "0 6 * * 1-5",
		Timezone: "UTC",
	}
	// Пятница 7:00 — следующее срабатывание в понедельник 6:00.
	from := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(order, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 17, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestCalculateNextDue_CronTakesPrecedence(t *testing.T) {
	order := &domain.StandingOrder{
		CronExpr:    "30 12 * * *",
		IntervalSec: 60,
		Timezone:    "UTC",
	}
	from := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(order, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestCalculateNextDue_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	order := &domain.StandingOrder{
		IntervalSec: 60,
		Timezone:    "Mars/Olympus",
	}
	from := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(order, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Equal(from.Add(time.Minute)) {
		t.Errorf("expected fallback to UTC, got %v", next)
	}
}

func TestCalculateNextDue_NeitherCronNorInterval(t *testing.T) {
	order := &domain.StandingOrder{Timezone: "UTC"}
	if _, err := CalculateNextDue(order, time.Now()); err == nil {
		t.Error("expected error for order without schedule")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("0 6 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCronExpr("not a cron"); err == nil {
		t.Error("expected error for invalid expression")
	}
}
