package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shaiso/Fabrika/internal/domain"
)

// cronParser — парсер cron-выражений.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CalculateNextDue вычисляет следующее время создания плана.
// Для интервалов просто добавляет IntervalSec к текущему времени.
// Учитывает timezone постоянного заказа.
func CalculateNextDue(order *domain.StandingOrder, from time.Time) (time.Time, error) {
	// Загружаем timezone
	loc, err := time.LoadLocation(order.Timezone)
	if err != nil {
		// Fallback на UTC если timezone невалидный
		loc = time.UTC
	}

	// Конвертируем from в нужный timezone
	fromInTz := from.In(loc)

	if order.IsCron() {
		return calculateNextCron(order.CronExpr, fromInTz)
	}

	if order.IsInterval() {
		return calculateNextInterval(order.IntervalSec, fromInTz), nil
	}

	// Ни cron, ни interval — заказ некорректный
	return time.Time{}, fmt.Errorf("standing order has neither cron_expr nor interval_sec")
}

// calculateNextCron вычисляет следующее время по cron-выражению.
func calculateNextCron(cronExpr string, from time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}

	next := schedule.Next(from)
	return next.UTC(), nil // возвращаем в UTC для хранения в БД
}

// calculateNextInterval вычисляет следующее время по интервалу.
func calculateNextInterval(intervalSec int, from time.Time) time.Time {
	next := from.Add(time.Duration(intervalSec) * time.Second)
	return next.UTC() // возвращаем в UTC для хранения в БД
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	_, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}

// CalculateInitialNextDue вычисляет первое время создания плана
// для нового постоянного заказа. Используется при создании через API.
func CalculateInitialNextDue(order *domain.StandingOrder) (time.Time, error) {
	return CalculateNextDue(order, time.Now())
}
