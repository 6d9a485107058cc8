package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/floor"
	"github.com/subo-hems/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error)
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (domain.Order, error)
	AppendItems(ctx context.Context, id int64, items []service.ItemRequest) (domain.Order, error)
	SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (domain.Order, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/items", h.AppendItems)
	r.Patch("/{id}/items/{index}", h.SetItemPrepared)
}

// --- Request / Response types ---

type createOrderRequest struct {
	Type        string        `json:"type"`
	TableNumber *int          `json:"tableNumber"`
	Items       []itemRequest `json:"items"`
}

// itemRequest accepts full menu entries from older clients; only the ID,
// quantity and notes are used.
type itemRequest struct {
	ID       int    `json:"id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type appendItemsRequest struct {
	Items []itemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type setPreparedRequest struct {
	Prepared *bool `json:"prepared"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	Type        string              `json:"type"`
	TableNumber *int                `json:"tableNumber"`
	TableLabel  string              `json:"tableLabel,omitempty"`
	Items       []orderItemResponse `json:"items"`
	Status      string              `json:"status"`
	TotalPrice  json.Number         `json:"totalPrice"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt"`
}

type orderItemResponse struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Category string      `json:"category,omitempty"`
	Quantity int         `json:"quantity"`
	Notes    string      `json:"notes"`
	Prepared bool        `json:"prepared"`
	Subtotal json.Number `json:"subtotal"`
}

// --- Handlers ---

// List handles GET /orders with an optional ?status= filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !isValidOrderStatus(status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be pending or completed"})
		return
	}

	orders, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	svcReq := service.CreateOrderRequest{
		Type:  req.Type,
		Items: toServiceItems(req.Items),
	}
	if req.TableNumber != nil {
		svcReq.TableNumber = *req.TableNumber
	}

	o, err := h.svc.CreateOrder(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// UpdateStatus handles PUT /orders/{id}.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// Unknown statuses are accepted and leave the order unchanged.
	o, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, "update order status", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// AppendItems handles POST /orders/{id}/items.
func (h *OrderHandler) AppendItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req appendItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	o, err := h.svc.AppendItems(r.Context(), id, toServiceItems(req.Items))
	if err != nil {
		writeServiceError(w, "append items", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// SetItemPrepared handles PATCH /orders/{id}/items/{index}.
func (h *OrderHandler) SetItemPrepared(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	var req setPreparedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Prepared == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prepared is required"})
		return
	}

	o, err := h.svc.SetItemPrepared(r.Context(), id, index, *req.Prepared)
	if err != nil {
		writeServiceError(w, "set item prepared", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// Delete handles DELETE /orders/{id} and returns the removed order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, "delete order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// --- Helpers ---

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return 0, false
	}
	return id, true
}

func toServiceItems(items []itemRequest) []service.ItemRequest {
	out := make([]service.ItemRequest, len(items))
	for i, it := range items {
		out[i] = service.ItemRequest{MenuID: it.ID, Quantity: it.Quantity, Notes: it.Notes}
	}
	return out
}

// writeServiceError maps domain errors to HTTP statuses. Anything else is
// logged and reported as 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, domain.ErrNotReady):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isValidOrderStatus(s string) bool {
	return s == enum.OrderStatusPending || s == enum.OrderStatusCompleted
}

// money renders a decimal as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Type:        o.Type,
		TableNumber: o.TableNumber,
		Status:      o.Status,
		TotalPrice:  money(o.TotalPrice()),
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
		Items:       make([]orderItemResponse, len(o.Items)),
	}
	if o.TableNumber != nil {
		resp.TableLabel = floor.Label(*o.TableNumber)
	}
	for i, li := range o.Items {
		resp.Items[i] = orderItemResponse{
			ID:       li.MenuID,
			Name:     li.Name,
			Price:    json.Number(li.Price.String()),
			Category: li.Category,
			Quantity: li.Quantity,
			Notes:    li.Notes,
			Prepared: li.Prepared,
			Subtotal: money(li.Subtotal()),
		}
	}
	return resp
}
