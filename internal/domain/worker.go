package domain

import "fmt"

// FavoriteProducts — количество любимых продуктов в профиле работника.
const FavoriteProducts = 3

// Worker — профиль работника.
//
// Профиль неизменяем в рамках одного расчёта плана. Уровни навыков
// задаются в диапазоне 0.0–1.0, предпочтения — до трёх продуктов
// в порядке убывания приоритета.
type Worker struct {
	// Name — уникальное имя работника.
	Name string `json:"name"`

	// Skills — уровни владения шестью навыками (0.0–1.0).
	Skills SkillSet `json:"skills"`

	// Favorites — любимые продукты в порядке приоритета.
	// Пустая строка — позиция не заполнена.
	Favorites [FavoriteProducts]string `json:"favorites"`
}

// Validate проверяет корректность профиля.
func (w *Worker) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("worker: empty name")
	}
	if !w.Skills.InRange(0, 1) {
		return fmt.Errorf("worker %q: skills must be in [0, 1]", w.Name)
	}
	return nil
}

// FavoriteRank возвращает позицию продукта в предпочтениях (1–3)
// или 0, если продукт не входит в любимые.
func (w *Worker) FavoriteRank(product string) int {
	if product == "" {
		return 0
	}
	for i, fav := range w.Favorites {
		if fav == product {
			return i + 1
		}
	}
	return 0
}

// Roster — список работников, доступных для планирования.
type Roster []Worker

// Names возвращает имена работников в порядке списка.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i := range r {
		names[i] = r[i].Name
	}
	return names
}

// ByName возвращает работника по имени.
func (r Roster) ByName(name string) (*Worker, bool) {
	for i := range r {
		if r[i].Name == name {
			return &r[i], true
		}
	}
	return nil, false
}

// Validate проверяет всех работников и уникальность имён.
func (r Roster) Validate() error {
	seen := make(map[string]bool, len(r))
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return err
		}
		if seen[r[i].Name] {
			return fmt.Errorf("worker %q: duplicate name", r[i].Name)
		}
		seen[r[i].Name] = true
	}
	return nil
}
