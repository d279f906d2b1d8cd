package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// TaskDefResponse — операция каталога из API.
type TaskDefResponse struct {
	Product       string             `json:"product"`
	Name          string             `json:"name"`
	Result        string             `json:"result"`
	Requires      []string           `json:"requires,omitempty"`
	DurationSlots int                `json:"duration_slots"`
	Weights       map[string]float64 `json:"weights"`
}

// WorkerResponse — профиль работника из API.
type WorkerResponse struct {
	Name      string             `json:"name"`
	Skills    map[string]float64 `json:"skills"`
	Favorites []string           `json:"favorites,omitempty"`
}

// PlanOrderResponse — производственный заказ внутри плана.
type PlanOrderResponse struct {
	Quantities map[string]int `json:"quantities"`
	Workers    []string       `json:"workers"`
	Seed       int64          `json:"seed"`
	StartHour  int            `json:"start_hour,omitempty"`
	EndHour    int            `json:"end_hour,omitempty"`
}

// PlanResponse — план из API.
type PlanResponse struct {
	ID             string            `json:"id"`
	Order          PlanOrderResponse `json:"order"`
	Status         string            `json:"status"`
	Result         json.RawMessage   `json:"result,omitempty"`
	Error          string            `json:"error,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	StartedAt      string            `json:"started_at,omitempty"`
	FinishedAt     string            `json:"finished_at,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

// PlanStatsResponse — сводная статистика завершённого плана.
type PlanStatsResponse struct {
	TotalTasks           int                `json:"total_tasks"`
	CompletedTasks       int                `json:"completed_tasks"`
	CompletionPercentage float64            `json:"completion_percentage"`
	EstimatedDays        int                `json:"estimated_days"`
	TasksByDay           map[int]int        `json:"tasks_by_day"`
	TasksByProduct       map[string]int     `json:"tasks_by_product"`
	WorkerTasks          map[string]float64 `json:"worker_tasks"`
	AggressiveWorkers    []string           `json:"aggressive_workers"`
}

// WorkerReportResponse — отчёт по одному работнику.
type WorkerReportResponse struct {
	Worker              string  `json:"worker"`
	TasksCompleted      float64 `json:"tasks_completed"`
	ProductsWorked      int     `json:"products_worked"`
	SkillUtilizationPct float64 `json:"skill_utilization_pct"`
	MainProduct         string  `json:"main_product,omitempty"`
}

// StandingOrderResponse — постоянный заказ из API.
type StandingOrderResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Order       PlanOrderResponse `json:"order"`
	CronExpr    string            `json:"cron_expr,omitempty"`
	IntervalSec int               `json:"interval_sec,omitempty"`
	Timezone    string            `json:"timezone"`
	Enabled     bool              `json:"enabled"`
	NextDueAt   string            `json:"next_due_at,omitempty"`
	LastPlanAt  string            `json:"last_plan_at,omitempty"`
	LastPlanID  string            `json:"last_plan_id,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// --- Request types ---

// TaskDefRequest — одна операция в запросе на замену каталога продукта.
type TaskDefRequest struct {
	Name          string             `json:"name"`
	Result        string             `json:"result"`
	Requires      string             `json:"requires,omitempty"`
	DurationSlots int                `json:"duration_slots"`
	Weights       map[string]float64 `json:"weights"`
}

// ReplaceProductRequest — полная замена операций продукта.
type ReplaceProductRequest struct {
	Tasks []TaskDefRequest `json:"tasks"`
}

// UpsertWorkerRequest — создание/обновление работника.
type UpsertWorkerRequest struct {
	Skills    map[string]float64 `json:"skills"`
	Favorites []string           `json:"favorites,omitempty"`
}

// CreatePlanRequest — запрос на расчёт плана.
type CreatePlanRequest struct {
	Quantities     map[string]int `json:"quantities"`
	Workers        []string       `json:"workers"`
	Seed           *int64         `json:"seed,omitempty"`
	StartHour      int            `json:"start_hour,omitempty"`
	EndHour        int            `json:"end_hour,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
}

// CreateStandingOrderRequest — создание постоянного заказа.
type CreateStandingOrderRequest struct {
	Name        string            `json:"name"`
	Order       PlanOrderResponse `json:"order"`
	CronExpr    string            `json:"cron_expr,omitempty"`
	IntervalSec int               `json:"interval_sec,omitempty"`
	Timezone    string            `json:"timezone,omitempty"`
	Enabled     bool              `json:"enabled"`
}

// UpdateStandingOrderRequest — обновление постоянного заказа.
type UpdateStandingOrderRequest struct {
	Name        *string `json:"name,omitempty"`
	CronExpr    *string `json:"cron_expr,omitempty"`
	IntervalSec *int    `json:"interval_sec,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

// ListPlansOpts — параметры фильтрации планов.
type ListPlansOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Fabrika API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Catalog ---

// ListCatalog возвращает весь каталог операций.
func (c *Client) ListCatalog() ([]TaskDefResponse, error) {
	var defs []TaskDefResponse
	err := c.list("/api/v1/catalog", nil, &defs)
	return defs, err
}

// GetProduct возвращает операции одного продукта.
func (c *Client) GetProduct(product string) ([]TaskDefResponse, error) {
	var defs []TaskDefResponse
	err := c.list("/api/v1/catalog/"+url.PathEscape(product), nil, &defs)
	return defs, err
}

// ReplaceProduct заменяет операции продукта.
func (c *Client) ReplaceProduct(product string, req ReplaceProductRequest) ([]TaskDefResponse, error) {
	var defs []TaskDefResponse
	err := c.put("/api/v1/catalog/"+url.PathEscape(product), req, &defs)
	return defs, err
}

// DeleteProduct удаляет продукт из каталога.
func (c *Client) DeleteProduct(product string) error {
	return c.delete("/api/v1/catalog/" + url.PathEscape(product))
}

// --- Workers ---

// ListWorkers возвращает всех работников.
func (c *Client) ListWorkers() ([]WorkerResponse, error) {
	var workers []WorkerResponse
	err := c.list("/api/v1/workers", nil, &workers)
	return workers, err
}

// GetWorker возвращает работника по имени.
func (c *Client) GetWorker(name string) (*WorkerResponse, error) {
	var worker WorkerResponse
	err := c.get("/api/v1/workers/"+url.PathEscape(name), &worker)
	return &worker, err
}

// UpsertWorker создаёт или обновляет работника.
func (c *Client) UpsertWorker(name string, req UpsertWorkerRequest) (*WorkerResponse, error) {
	var worker WorkerResponse
	err := c.put("/api/v1/workers/"+url.PathEscape(name), req, &worker)
	return &worker, err
}

// DeleteWorker удаляет работника.
func (c *Client) DeleteWorker(name string) error {
	return c.delete("/api/v1/workers/" + url.PathEscape(name))
}

// --- Plans ---

// ListPlans возвращает список планов с фильтрацией.
func (c *Client) ListPlans(opts ListPlansOpts) ([]PlanResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var plans []PlanResponse
	err := c.list("/api/v1/plans", params, &plans)
	return plans, err
}

// CreatePlan ставит план в очередь на расчёт.
func (c *Client) CreatePlan(req CreatePlanRequest) (*PlanResponse, error) {
	var plan PlanResponse
	err := c.post("/api/v1/plans", req, &plan)
	return &plan, err
}

// GetPlan возвращает план по ID.
func (c *Client) GetPlan(id string) (*PlanResponse, error) {
	var plan PlanResponse
	err := c.get("/api/v1/plans/"+id, &plan)
	return &plan, err
}

// GetPlanStats возвращает сводную статистику плана.
func (c *Client) GetPlanStats(id string) (*PlanStatsResponse, error) {
	var stats PlanStatsResponse
	err := c.get("/api/v1/plans/"+id+"/stats", &stats)
	return &stats, err
}

// GetPlanWorkers возвращает отчёты по работникам плана.
func (c *Client) GetPlanWorkers(id string) ([]WorkerReportResponse, error) {
	var reports []WorkerReportResponse
	err := c.list("/api/v1/plans/"+id+"/workers", nil, &reports)
	return reports, err
}

// ExportPlanCSV возвращает расписание плана в формате CSV.
// Эндпоинт отдаёт сырой CSV без JSON-обёртки.
func (c *Client) ExportPlanCSV(id string) ([]byte, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/plans/"+id+"/export.csv", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// --- Standing orders ---

// ListStandingOrders возвращает все постоянные заказы.
func (c *Client) ListStandingOrders() ([]StandingOrderResponse, error) {
	var orders []StandingOrderResponse
	err := c.list("/api/v1/standing-orders", nil, &orders)
	return orders, err
}

// CreateStandingOrder создаёт постоянный заказ.
func (c *Client) CreateStandingOrder(req CreateStandingOrderRequest) (*StandingOrderResponse, error) {
	var order StandingOrderResponse
	err := c.post("/api/v1/standing-orders", req, &order)
	return &order, err
}

// GetStandingOrder возвращает постоянный заказ по ID.
func (c *Client) GetStandingOrder(id string) (*StandingOrderResponse, error) {
	var order StandingOrderResponse
	err := c.get("/api/v1/standing-orders/"+id, &order)
	return &order, err
}

// UpdateStandingOrder обновляет постоянный заказ.
func (c *Client) UpdateStandingOrder(id string, req UpdateStandingOrderRequest) (*StandingOrderResponse, error) {
	var order StandingOrderResponse
	err := c.put("/api/v1/standing-orders/"+id, req, &order)
	return &order, err
}

// DeleteStandingOrder удаляет постоянный заказ.
func (c *Client) DeleteStandingOrder(id string) error {
	return c.delete("/api/v1/standing-orders/" + id)
}

// EnableStandingOrder включает постоянный заказ.
func (c *Client) EnableStandingOrder(id string) (*StandingOrderResponse, error) {
	var order StandingOrderResponse
	body := map[string]bool{"enabled": true}
	err := c.put("/api/v1/standing-orders/"+id+"/enabled", body, &order)
	return &order, err
}

// DisableStandingOrder выключает постоянный заказ.
func (c *Client) DisableStandingOrder(id string) (*StandingOrderResponse, error) {
	var order StandingOrderResponse
	body := map[string]bool{"enabled": false}
	err := c.put("/api/v1/standing-orders/"+id+"/enabled", body, &order)
	return &order, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
