// Package engine содержит ядро автоназначения производственных задач.
//
// Включает:
//   - slots.go    — генерация временных слотов рабочего дня
//   - resolver.go — порядок обработки операций по зависимостям (DFS)
//   - score.go    — оценка соответствия работник–задача
//   - state.go    — состояние расчёта: экземпляры задач, пул доступных,
//     состояние зависимостей, статистика работников
//   - planner.go  — жадный цикл назначения по дням и слотам
//   - report.go   — агрегация итоговой статистики
//
// Расчёт — чистая функция от (каталог, работники, заказ, зерно):
// одинаковый вход даёт байт-в-байт одинаковый план. Вся случайность
// идёт через инжектированный генератор, все обходы детерминированы.
package engine
