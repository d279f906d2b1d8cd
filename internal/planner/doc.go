// Package planner рассчитывает планы производства.
//
// # Обзор
//
// Planner — stateless компонент системы Fabrika, который выполняет
// расчёт расписания для планов (plans), созданных через API или
// Scheduler'ом по постоянным заказам. Planner отвечает за:
//
//   - Получение планов из очереди RabbitMQ (event-driven)
//   - Периодическую проверку pending планов в БД (polling fallback)
//   - Загрузку каталога операций и состава работников
//   - Запуск детерминированного расчёта расписания (пакет engine)
//   - Сохранение результата и отправку plan.completed
//
// Planner-ы масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди plans.pending.
//
// # Ключевые компоненты
//
// ## Planner
//
// Основная структура, управляющая жизненным циклом.
// Создаётся через New(cfg Config) и запускается методом Start(ctx).
//
//	p := planner.New(planner.Config{
//	    PlanRepo:    planRepo,
//	    CatalogRepo: catalogRepo,
//	    WorkerRepo:  workerRepo,
//	    Publisher:   publisher,
//	    Conn:        mqConn,
//	    Logger:      logger,
//	})
//
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Stop()
//
// # Обработка плана
//
//  1. Получение плана (из очереди или polling)
//  2. Атомарный захват: UPDATE ... WHERE status = 'PENDING' (PENDING → RUNNING)
//  3. Загрузка плана, каталога и списка работников из БД
//  4. Расчёт через engine.BuildPlan
//  5. Успех → MarkSucceeded, publish plan.completed(SUCCEEDED)
//  6. Ошибка → MarkFailed, publish plan.completed(FAILED)
//
// # Конкуренция
//
// Consumer и polling работают одновременно, поэтому один план может
// быть замечен дважды (событие + poll). Атомарный захват через
// MarkRunningIfPending гарантирует единственный расчёт: проигравшая
// сторона получает ErrPlanNotPending и молча пропускает план.
//
// # Ошибки
//
// Пакет различает два уровня ошибок:
//   - Инфраструктурные (БД недоступна) — сообщение возвращается
//     в очередь и будет доставлено повторно
//   - Ошибки расчёта (цикл зависимостей, неизвестный продукт) —
//     план переводится в FAILED, retry не поможет
package planner
