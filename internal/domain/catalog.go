package domain

import (
	"fmt"
	"strings"
)

// TaskDef — определение производственной операции в каталоге.
//
// Каждый продукт описывается упорядоченным набором операций.
// Операция производит уникальный результат (Result), на который
// другие операции ссылаются через Requires. Справочник неизменяем
// в рамках одного расчёта плана.
type TaskDef struct {
	// Product — продукт, к которому относится операция.
	Product string `json:"product"`

	// Name — имя операции (например, "Box - Сборка корпуса").
	Name string `json:"name"`

	// Result — уникальный идентификатор результата операции.
	// На него ссылаются зависимые операции.
	Result string `json:"result"`

	// Requires — идентификаторы результатов, необходимых для начала.
	// Пустой список — операция без предусловий.
	Requires []string `json:"requires,omitempty"`

	// DurationSlots — номинальная длительность в слотах по 30 минут.
	DurationSlots int `json:"duration_slots"`

	// Weights — релевантность шести навыков в процентах (0–100).
	Weights SkillSet `json:"weights"`
}

// Validate проверяет корректность определения операции.
func (d *TaskDef) Validate() error {
	if d.Product == "" {
		return fmt.Errorf("task %q: empty product", d.Name)
	}
	if d.Name == "" {
		return fmt.Errorf("task in product %q: empty name", d.Product)
	}
	if d.Result == "" {
		return fmt.Errorf("task %q: empty result id", d.Name)
	}
	if d.DurationSlots < 1 {
		return fmt.Errorf("task %q: duration_slots must be >= 1, got %d", d.Name, d.DurationSlots)
	}
	if !d.Weights.InRange(0, 100) {
		return fmt.Errorf("task %q: skill weights must be in [0, 100]", d.Name)
	}
	return nil
}

// ParseRequirements разбирает строку требований вида "R1, R2" в список
// идентификаторов результатов. Пустая строка — нет требований.
func ParseRequirements(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	reqs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			reqs = append(reqs, p)
		}
	}
	return reqs
}

// Catalog — справочник операций всех продуктов.
type Catalog []TaskDef

// Products возвращает список уникальных продуктов с сохранением
// порядка первого появления.
func (c Catalog) Products() []string {
	seen := make(map[string]bool, len(c))
	var products []string
	for i := range c {
		if !seen[c[i].Product] {
			seen[c[i].Product] = true
			products = append(products, c[i].Product)
		}
	}
	return products
}

// ForProduct возвращает операции указанного продукта в порядке каталога.
func (c Catalog) ForProduct(product string) []TaskDef {
	var defs []TaskDef
	for i := range c {
		if c[i].Product == product {
			defs = append(defs, c[i])
		}
	}
	return defs
}

// Validate проверяет все операции каталога.
func (c Catalog) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
