package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Catalog
	mux.Handle("GET /api/v1/catalog", chain(http.HandlerFunc(h.ListCatalog)))
	mux.Handle("GET /api/v1/catalog/{product}", chain(http.HandlerFunc(h.GetProduct)))
	mux.Handle("PUT /api/v1/catalog/{product}", chain(http.HandlerFunc(h.ReplaceProduct)))
	mux.Handle("DELETE /api/v1/catalog/{product}", chain(http.HandlerFunc(h.DeleteProduct)))

	// Workers
	mux.Handle("GET /api/v1/workers", chain(http.HandlerFunc(h.ListWorkers)))
	mux.Handle("GET /api/v1/workers/{name}", chain(http.HandlerFunc(h.GetWorker)))
	mux.Handle("PUT /api/v1/workers/{name}", chain(http.HandlerFunc(h.UpsertWorker)))
	mux.Handle("DELETE /api/v1/workers/{name}", chain(http.HandlerFunc(h.DeleteWorker)))

	// Plans
	mux.Handle("GET /api/v1/plans", chain(http.HandlerFunc(h.ListPlans)))
	mux.Handle("POST /api/v1/plans", chain(http.HandlerFunc(h.CreatePlan)))
	mux.Handle("GET /api/v1/plans/{id}", chain(http.HandlerFunc(h.GetPlan)))
	mux.Handle("GET /api/v1/plans/{id}/stats", chain(http.HandlerFunc(h.GetPlanStats)))
	mux.Handle("GET /api/v1/plans/{id}/workers", chain(http.HandlerFunc(h.GetPlanWorkers)))
	mux.Handle("GET /api/v1/plans/{id}/export.csv", chain(http.HandlerFunc(h.ExportPlanCSV)))

	// Standing orders
	mux.Handle("GET /api/v1/standing-orders", chain(http.HandlerFunc(h.ListStandingOrders)))
	mux.Handle("POST /api/v1/standing-orders", chain(http.HandlerFunc(h.CreateStandingOrder)))
	mux.Handle("GET /api/v1/standing-orders/{id}", chain(http.HandlerFunc(h.GetStandingOrder)))
	mux.Handle("PUT /api/v1/standing-orders/{id}", chain(http.HandlerFunc(h.UpdateStandingOrder)))
	mux.Handle("DELETE /api/v1/standing-orders/{id}", chain(http.HandlerFunc(h.DeleteStandingOrder)))
	mux.Handle("PUT /api/v1/standing-orders/{id}/enabled", chain(http.HandlerFunc(h.SetStandingOrderEnabled)))
}
