// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - plan.pending     — новый план ожидает расчёта
//   - plan.completed   — расчёт плана завершён
//
// Exchanges:
//   - fabrika.plans    — события планов
//   - fabrika.dlq      — dead letter queue
package mq
