package engine

import (
	"fmt"

	"github.com/shaiso/Fabrika/internal/domain"
)

// Цвета вершин при обходе в глубину.
type visitColor int

const (
	colorWhite visitColor = iota // не посещена
	colorGrey                    // в обработке (на стеке рекурсии)
	colorBlack                   // обработана
)

// ResolveOrder вычисляет порядок обработки операций по зависимостям.
//
// Вход — определения операций, участвующих в заказе. Выход — имена
// операций в таком порядке, что каждая операция-предусловие стоит
// строго раньше любой операции, которая на неё ссылается
// (топологический порядок по графу имён операций).
//
// Ошибки конфигурации:
//   - требование ссылается на результат, который не производит ни одна
//     операция → ErrUnknownResult с указанием операции и результата;
//   - цикл в зависимостях → ErrCyclicDependency с указанием операции,
//     замкнувшей цикл.
//
// Обход детерминирован: операции посещаются в порядке входного среза,
// требования — в порядке объявления.
func ResolveOrder(defs []domain.TaskDef) ([]string, error) {
	byName := make(map[string]*domain.TaskDef, len(defs))
	producer := make(map[string]string, len(defs)) // result id → имя операции
	for i := range defs {
		d := &defs[i]
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = d
		}
		if _, ok := producer[d.Result]; !ok {
			producer[d.Result] = d.Name
		}
	}

	colors := make(map[string]visitColor, len(defs))
	order := make([]string, 0, len(byName))

	var visit func(name string) error
	visit = func(name string) error {
		switch colors[name] {
		case colorBlack:
			return nil
		case colorGrey:
			// Серая вершина на пути рекурсии — цикл.
			return NewConfigError(name, "",
				fmt.Sprintf("dependency cycle through task %q", name), ErrCyclicDependency)
		}
		colors[name] = colorGrey

		def := byName[name]
		for _, req := range def.Requires {
			producerName, ok := producer[req]
			if !ok {
				return NewConfigError(name, req,
					fmt.Sprintf("requires result %q produced by no known task", req), ErrUnknownResult)
			}
			if err := visit(producerName); err != nil {
				return err
			}
		}

		colors[name] = colorBlack
		order = append(order, name)
		return nil
	}

	for i := range defs {
		if err := visit(defs[i].Name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
