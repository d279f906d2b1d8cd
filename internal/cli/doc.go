// Package cli реализует инструмент командной строки Fabrika.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Fabrika API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления каталогом операций, работниками,
// планами и постоянными заказами.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Fabrika API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	workers, err := client.ListWorkers()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: fabrika plan list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - catalog:  list, show, apply, delete
//   - worker:   list, show, set, delete
//   - plan:     list, create, show, stats, workers, export
//   - standing: list, create, show, update, delete, enable, disable
//
// Каждая группа создаётся через фабричную функцию (NewPlanCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
