package domain

// CompletionStats — сводная статистика выполненного расчёта.
//
// Чистая агрегация по финальному состоянию задач и сетке расписания,
// никаких мутаций после расчёта.
type CompletionStats struct {
	// TotalTasks — общее количество экземпляров задач в заказе.
	TotalTasks int `json:"total_tasks"`

	// CompletedTasks — количество полностью завершённых экземпляров.
	CompletedTasks int `json:"completed_tasks"`

	// CompletionPercentage — процент завершения (0–100).
	CompletionPercentage float64 `json:"completion_percentage"`

	// EstimatedDays — расчётное количество производственных дней.
	EstimatedDays int `json:"estimated_days"`

	// TasksByDay — количество задач, начатых в каждый день.
	TasksByDay map[int]int `json:"tasks_by_day"`

	// TasksByProduct — количество завершённых задач по продуктам.
	TasksByProduct map[string]int `json:"tasks_by_product"`

	// WorkerTasks — дробное количество задач, выполненных каждым
	// работником (сумма долей вклада).
	WorkerTasks map[string]float64 `json:"worker_tasks"`

	// AggressiveWorkers — работники, действовавшие агрессивно
	// в последний день расчёта.
	AggressiveWorkers []string `json:"aggressive_workers"`
}

// Contribution — один вклад работника в задачу.
type Contribution struct {
	// Result — идентификатор результата задачи.
	Result string `json:"result"`

	// Product — продукт.
	Product string `json:"product"`

	// Task — имя операции.
	Task string `json:"task"`

	// Progress — внесённый процент выполнения (0–100).
	Progress float64 `json:"progress"`
}

// WorkerStats — накопительная статистика работника за расчёт.
//
// Мутируется планировщиком после каждого назначения, после расчёта
// только читается.
type WorkerStats struct {
	// CurrentTask — операция, над которой работник трудился последней.
	CurrentTask string `json:"current_task,omitempty"`

	// CurrentProduct — продукт последней операции.
	CurrentProduct string `json:"current_product,omitempty"`

	// History — история вкладов в порядке назначения.
	History []Contribution `json:"history,omitempty"`

	// ProductShare — дробное количество задач по продуктам.
	ProductShare map[string]float64 `json:"product_share,omitempty"`

	// TasksCompleted — суммарное дробное количество выполненных задач.
	TasksCompleted float64 `json:"tasks_completed"`

	// SkillUtilization — средневзвешенное соответствие навыков (0–1).
	SkillUtilization float64 `json:"skill_utilization"`

	// TimeOnProduct — затраченные слоты по продуктам.
	TimeOnProduct map[string]int `json:"time_on_product,omitempty"`

	// ProgressionScore — счёт за разблокирование зависимых задач.
	// Используется при отборе агрессивных работников на следующий день.
	ProgressionScore int `json:"progression_score"`

	// Aggressiveness — коэффициент агрессивности в [0.2, 0.8].
	// Разыгрывается один раз в начале расчёта.
	Aggressiveness float64 `json:"aggressiveness"`
}

// WorkerReport — производный отчёт по работнику для отображения.
type WorkerReport struct {
	// Worker — имя работника.
	Worker string `json:"worker"`

	// TasksCompleted — дробное количество выполненных задач.
	TasksCompleted float64 `json:"tasks_completed"`

	// ProductsWorked — количество затронутых продуктов.
	ProductsWorked int `json:"products_worked"`

	// SkillUtilizationPct — соответствие навыков в процентах.
	SkillUtilizationPct float64 `json:"skill_utilization_pct"`

	// MainProduct — продукт с наибольшим затраченным временем.
	MainProduct string `json:"main_product,omitempty"`
}
