package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shaiso/Fabrika/internal/domain"
)

// ListWorkers возвращает список работников.
// GET /api/v1/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	roster, err := h.workerRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkerResponse, len(roster))
	for i, worker := range roster {
		result[i] = WorkerFromDomain(worker)
	}

	List(w, result, len(result))
}

// GetWorker возвращает профиль работника.
// GET /api/v1/workers/{name}
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	worker, err := h.workerRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "worker not found") {
		return
	}

	Success(w, WorkerFromDomain(*worker))
}

// UpsertWorker создаёт или обновляет профиль работника.
// PUT /api/v1/workers/{name}
func (h *Handler) UpsertWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req UpsertWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.Favorites) > domain.FavoriteProducts {
		BadRequest(w, fmt.Sprintf("at most %d favorite products", domain.FavoriteProducts))
		return
	}

	worker := domain.Worker{
		Name:   name,
		Skills: req.Skills,
	}
	copy(worker.Favorites[:], req.Favorites)

	if err := worker.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.workerRepo.Upsert(r.Context(), &worker); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, WorkerFromDomain(worker))
}

// DeleteWorker удаляет работника.
// DELETE /api/v1/workers/{name}
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	err := h.workerRepo.Delete(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "worker not found") {
		return
	}

	NoContent(w)
}
