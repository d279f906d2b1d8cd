package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Fabrika/internal/domain"
)

// ListCatalog возвращает весь каталог операций.
// GET /api/v1/catalog
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalogRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]TaskDefResponse, len(catalog))
	for i, def := range catalog {
		result[i] = TaskDefFromDomain(def)
	}

	List(w, result, len(result))
}

// GetProduct возвращает операции одного продукта.
// GET /api/v1/catalog/{product}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product := r.PathValue("product")

	defs, err := h.catalogRepo.ForProduct(r.Context(), product)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}
	if len(defs) == 0 {
		NotFound(w, "product not found")
		return
	}

	result := make([]TaskDefResponse, len(defs))
	for i, def := range defs {
		result[i] = TaskDefFromDomain(def)
	}

	List(w, result, len(result))
}

// ReplaceProduct полностью заменяет операции продукта.
// PUT /api/v1/catalog/{product}
func (h *Handler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	product := r.PathValue("product")

	var req ReplaceProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.Tasks) == 0 {
		BadRequest(w, "product must have at least one task")
		return
	}

	defs := make([]domain.TaskDef, len(req.Tasks))
	for i, t := range req.Tasks {
		defs[i] = domain.TaskDef{
			Product:       product,
			Name:          t.Name,
			Result:        t.Result,
			Requires:      domain.ParseRequirements(t.Requires),
			DurationSlots: t.DurationSlots,
			Weights:       t.Weights,
		}
		if err := defs[i].Validate(); err != nil {
			BadRequest(w, err.Error())
			return
		}
	}

	if err := h.catalogRepo.ReplaceProduct(r.Context(), product, defs); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]TaskDefResponse, len(defs))
	for i, def := range defs {
		result[i] = TaskDefFromDomain(def)
	}

	Success(w, result)
}

// DeleteProduct удаляет все операции продукта.
// DELETE /api/v1/catalog/{product}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product := r.PathValue("product")

	err := h.catalogRepo.DeleteProduct(r.Context(), product)
	if HandleRepoError(w, h.logger, err, "product not found") {
		return
	}

	NoContent(w)
}
