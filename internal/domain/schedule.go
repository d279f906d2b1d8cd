package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Assignment — запись о назначении в одной ячейке расписания.
type Assignment struct {
	// Product — продукт.
	Product string `json:"product"`

	// Task — имя операции.
	Task string `json:"task"`

	// Result — идентификатор результата операции.
	Result string `json:"result"`
}

// Schedule — сетка расписания: день → работник → слот → назначение.
//
// Инвариант: ячейка (день, работник, слот) заполняется не более одного
// раза — двойное бронирование исключено структурно, запись в занятую
// ячейку возвращает ошибку. Сетка принадлежит планировщику на время
// расчёта и после него только читается.
type Schedule struct {
	// Days — количество дней в расписании (дни нумеруются с 1).
	Days int `json:"days"`

	// Slots — временные слоты одного дня в хронологическом порядке
	// ("08:00", "08:30", ...).
	Slots []string `json:"slots"`

	// Workers — имена работников в порядке списка доступности.
	Workers []string `json:"workers"`

	// Cells — заполненные ячейки. Отсутствие ключа — свободная ячейка.
	Cells map[int]map[string]map[string]Assignment `json:"cells"`
}

// NewSchedule создаёт пустую сетку на указанное число дней.
func NewSchedule(days int, slots, workers []string) *Schedule {
	return &Schedule{
		Days:    days,
		Slots:   slots,
		Workers: workers,
		Cells:   make(map[int]map[string]map[string]Assignment, days),
	}
}

// At возвращает назначение в ячейке, если она занята.
func (s *Schedule) At(day int, worker, slot string) (Assignment, bool) {
	byWorker, ok := s.Cells[day]
	if !ok {
		return Assignment{}, false
	}
	bySlot, ok := byWorker[worker]
	if !ok {
		return Assignment{}, false
	}
	a, ok := bySlot[slot]
	return a, ok
}

// Place записывает назначение в свободную ячейку.
// Возвращает ошибку при попытке записи в занятую ячейку.
func (s *Schedule) Place(day int, worker, slot string, a Assignment) error {
	byWorker, ok := s.Cells[day]
	if !ok {
		byWorker = make(map[string]map[string]Assignment)
		s.Cells[day] = byWorker
	}
	bySlot, ok := byWorker[worker]
	if !ok {
		bySlot = make(map[string]Assignment)
		byWorker[worker] = bySlot
	}
	if _, busy := bySlot[slot]; busy {
		return fmt.Errorf("cell day=%d worker=%s slot=%s already occupied", day, worker, slot)
	}
	bySlot[slot] = a
	return nil
}

// FreeWorkers возвращает работников, свободных в указанном слоте,
// в порядке списка Workers.
func (s *Schedule) FreeWorkers(day int, slot string) []string {
	free := make([]string, 0, len(s.Workers))
	for _, w := range s.Workers {
		if _, busy := s.At(day, w, slot); !busy {
			free = append(free, w)
		}
	}
	return free
}

// WriteCSV выгружает заполненные ячейки в CSV с колонками
// Day, Worker, Time, Product, Task, TaskID.
//
// Обход детерминирован: дни по возрастанию, работники в порядке
// Workers, слоты в хронологическом порядке.
func (s *Schedule) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Day", "Worker", "Time", "Product", "Task", "TaskID"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for day := 1; day <= s.Days; day++ {
		for _, worker := range s.Workers {
			for _, slot := range s.Slots {
				a, ok := s.At(day, worker, slot)
				if !ok {
					continue
				}
				row := []string{strconv.Itoa(day), worker, slot, a.Product, a.Task, a.Result}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("write csv row: %w", err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
