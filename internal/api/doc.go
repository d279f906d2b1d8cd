// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (репозитории, publisher, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - catalog_handler.go  — обработчики для /catalog
//   - worker_handler.go   — обработчики для /workers
//   - plan_handler.go     — обработчики для /plans
//   - standing_handler.go — обработчики для /standing-orders
//
// API предоставляет REST endpoints для управления каталогом операций,
// списком работников, расчётами планов и постоянными заказами.
package api
