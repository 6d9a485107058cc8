package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/handler"
	"github.com/subo-hems/api/internal/menu"
	"github.com/subo-hems/api/internal/service"
	"github.com/subo-hems/api/internal/store"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	createFn      func(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error)
	listFn        func(ctx context.Context, status string) ([]domain.Order, error)
	getFn         func(ctx context.Context, id int64) (domain.Order, error)
	updateFn      func(ctx context.Context, id int64, status string) (domain.Order, error)
	appendFn      func(ctx context.Context, id int64, items []service.ItemRequest) (domain.Order, error)
	setPreparedFn func(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error)
	deleteFn      func(ctx context.Context, id int64) (domain.Order, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return domain.Order{}, errors.New("not implemented")
}

func (m *mockOrderService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return []domain.Order{}, nil
}

func (m *mockOrderService) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Order{}, domain.ErrNotFound
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status string) (domain.Order, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, status)
	}
	return domain.Order{}, domain.ErrNotFound
}

func (m *mockOrderService) AppendItems(ctx context.Context, id int64, items []service.ItemRequest) (domain.Order, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, id, items)
	}
	return domain.Order{}, domain.ErrNotFound
}

func (m *mockOrderService) SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error) {
	if m.setPreparedFn != nil {
		return m.setPreparedFn(ctx, id, index, prepared)
	}
	return domain.Order{}, domain.ErrNotFound
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) (domain.Order, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return domain.Order{}, domain.ErrNotFound
}

// --- Test helpers ---

func setupOrderRouter(svc handler.OrderServicer) *chi.Mux {
	h := handler.NewOrderHandler(svc)
	r := chi.NewRouter()
	r.Route("/orders", h.RegisterRoutes)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func testOrder() domain.Order {
	table := 5
	return domain.Order{
		ID:          1,
		OrderNumber: "ORD001",
		Type:        "dine-in",
		TableNumber: &table,
		Status:      "pending",
		CreatedAt:   time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		Items: []domain.LineItem{
			{MenuID: 3, Name: "Garlic Bread", Price: decimal.NewFromInt(120), Category: "appetizers", Quantity: 2},
			{MenuID: 45, Name: "Iced Tea", Price: decimal.NewFromInt(95), Category: "drinks", Quantity: 1, Prepared: true},
		},
	}
}

// --- Tests ---

func TestOrderCreate_HappyPath(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error) {
			if req.TableNumber != 5 {
				t.Errorf("table: got %d, want 5", req.TableNumber)
			}
			if len(req.Items) != 2 || req.Items[0].MenuID != 3 || req.Items[0].Quantity != 2 || req.Items[0].Notes != "crispy" {
				t.Errorf("items: got %+v", req.Items)
			}
			return testOrder(), nil
		},
	}

	router := setupOrderRouter(svc)
	rr := doRequest(t, router, "POST", "/orders", map[string]interface{}{
		"tableNumber": 5,
		"items": []map[string]interface{}{
			{"id": 3, "name": "Garlic Bread", "price": 120, "quantity": 2, "notes": "crispy"},
			{"id": 45, "quantity": 1},
		},
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["orderNumber"] != "ORD001" {
		t.Errorf("orderNumber: got %v, want ORD001", resp["orderNumber"])
	}
	if resp["totalPrice"] != float64(335) {
		t.Errorf("totalPrice: got %v, want 335", resp["totalPrice"])
	}
	if resp["tableLabel"] != "MH5" {
		t.Errorf("tableLabel: got %v, want MH5", resp["tableLabel"])
	}
	if resp["completedAt"] != nil {
		t.Errorf("completedAt: got %v, want null", resp["completedAt"])
	}
	items := resp["items"].([]interface{})
	first := items[0].(map[string]interface{})
	if first["price"] != float64(120) || first["subtotal"] != float64(240) || first["prepared"] != false {
		t.Errorf("first item: got %v", first)
	}
}

func TestOrderCreate_RendersMoneyWithTwoDecimals(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error) {
			return testOrder(), nil
		},
	}

	rr := doRequest(t, setupOrderRouter(svc), "POST", "/orders", map[string]interface{}{
		"tableNumber": 5,
		"items":       []map[string]interface{}{{"id": 3, "quantity": 2}},
	})

	if !bytes.Contains(rr.Body.Bytes(), []byte(`"totalPrice":335.00`)) {
		t.Errorf("body does not carry a two-decimal total: %s", rr.Body.String())
	}
}

func TestOrderCreate_BadRequests(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error) {
			return domain.Order{}, fmt.Errorf("items[0]: %w", service.ErrMenuItemNotFound)
		},
	}
	router := setupOrderRouter(svc)

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty items", map[string]interface{}{"tableNumber": 1, "items": []interface{}{}}},
		{"missing items", map[string]interface{}{"tableNumber": 1}},
		{"service validation", map[string]interface{}{"tableNumber": 1, "items": []map[string]interface{}{{"id": 999, "quantity": 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "POST", "/orders", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if resp := decodeObject(t, rr); resp["error"] == "" || resp["error"] == nil {
				t.Error("expected error message")
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/orders", bytes.NewReader([]byte("{")))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestOrderCreate_InternalError(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (domain.Order, error) {
			return domain.Order{}, errors.New("disk on fire")
		},
	}

	rr := doRequest(t, setupOrderRouter(svc), "POST", "/orders", map[string]interface{}{
		"tableNumber": 1,
		"items":       []map[string]interface{}{{"id": 3, "quantity": 1}},
	})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if resp := decodeObject(t, rr); resp["error"] != "internal server error" {
		t.Errorf("error leaked: %v", resp["error"])
	}
}

func TestOrderList_StatusFilter(t *testing.T) {
	var gotStatus string
	svc := &mockOrderService{
		listFn: func(ctx context.Context, status string) ([]domain.Order, error) {
			gotStatus = status
			return []domain.Order{testOrder()}, nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doRequest(t, router, "GET", "/orders?status=pending", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if gotStatus != "pending" {
		t.Errorf("filter: got %q, want pending", gotStatus)
	}
	var list []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0]["id"] != float64(1) {
		t.Errorf("list: got %v", list)
	}

	rr = doRequest(t, router, "GET", "/orders?status=cancelled", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown filter status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderList_EmptyIsArray(t *testing.T) {
	rr := doRequest(t, setupOrderRouter(&mockOrderService{}), "GET", "/orders", nil)
	if body := bytes.TrimSpace(rr.Body.Bytes()); string(body) != "[]" {
		t.Errorf("body: got %s, want []", body)
	}
}

func TestOrderGet(t *testing.T) {
	svc := &mockOrderService{
		getFn: func(ctx context.Context, id int64) (domain.Order, error) {
			if id == 1 {
				return testOrder(), nil
			}
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		},
	}
	router := setupOrderRouter(svc)

	if rr := doRequest(t, router, "GET", "/orders/1", nil); rr.Code != http.StatusOK {
		t.Errorf("existing: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr := doRequest(t, router, "GET", "/orders/2", nil); rr.Code != http.StatusNotFound {
		t.Errorf("missing: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if rr := doRequest(t, router, "GET", "/orders/abc", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	svc := &mockOrderService{
		updateFn: func(ctx context.Context, id int64, status string) (domain.Order, error) {
			o := testOrder()
			if status == "completed" {
				now := time.Now()
				o.Status = status
				o.CompletedAt = &now
			}
			return o, nil
		},
	}

	rr := doRequest(t, setupOrderRouter(svc), "PUT", "/orders/1", map[string]string{"status": "completed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeObject(t, rr)
	if resp["status"] != "completed" || resp["completedAt"] == nil {
		t.Errorf("response: got %v", resp)
	}
}

func TestOrderUpdateStatus_NotReady(t *testing.T) {
	svc := &mockOrderService{
		updateFn: func(ctx context.Context, id int64, status string) (domain.Order, error) {
			return domain.Order{}, fmt.Errorf("order ORD001: %w", domain.ErrNotReady)
		},
	}

	rr := doRequest(t, setupOrderRouter(svc), "PUT", "/orders/1", map[string]string{"status": "completed"})
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestOrderAppendItems(t *testing.T) {
	svc := &mockOrderService{
		appendFn: func(ctx context.Context, id int64, items []service.ItemRequest) (domain.Order, error) {
			if id != 1 || len(items) != 1 || items[0].MenuID != 47 {
				t.Errorf("append args: id=%d items=%+v", id, items)
			}
			return testOrder(), nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doRequest(t, router, "POST", "/orders/1/items", map[string]interface{}{
		"items": []map[string]interface{}{{"id": 47, "quantity": 1}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	rr = doRequest(t, router, "POST", "/orders/1/items", map[string]interface{}{"items": []interface{}{}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty items: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderSetItemPrepared(t *testing.T) {
	var gotIndex int
	var gotPrepared bool
	svc := &mockOrderService{
		setPreparedFn: func(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error) {
			if index > 1 {
				return domain.Order{}, fmt.Errorf("order %d item %d: %w", id, index, domain.ErrNotFound)
			}
			gotIndex, gotPrepared = index, prepared
			return testOrder(), nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doRequest(t, router, "PATCH", "/orders/1/items/1", map[string]bool{"prepared": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if gotIndex != 1 || !gotPrepared {
		t.Errorf("args: index=%d prepared=%v", gotIndex, gotPrepared)
	}

	if rr := doRequest(t, router, "PATCH", "/orders/1/items/7", map[string]bool{"prepared": true}); rr.Code != http.StatusNotFound {
		t.Errorf("out of range: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if rr := doRequest(t, router, "PATCH", "/orders/1/items/x", map[string]bool{"prepared": true}); rr.Code != http.StatusBadRequest {
		t.Errorf("bad index: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if rr := doRequest(t, router, "PATCH", "/orders/1/items/0", map[string]string{}); rr.Code != http.StatusBadRequest {
		t.Errorf("missing flag: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderDelete(t *testing.T) {
	svc := &mockOrderService{
		deleteFn: func(ctx context.Context, id int64) (domain.Order, error) {
			if id != 1 {
				return domain.Order{}, domain.ErrNotFound
			}
			return testOrder(), nil
		},
	}
	router := setupOrderRouter(svc)

	rr := doRequest(t, router, "DELETE", "/orders/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decodeObject(t, rr); resp["orderNumber"] != "ORD001" {
		t.Errorf("deleted order: got %v", resp)
	}
	if rr := doRequest(t, router, "DELETE", "/orders/999", nil); rr.Code != http.StatusNotFound {
		t.Errorf("missing: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// TestOrderLifecycle runs the handlers against the real service and store.
func TestOrderLifecycle(t *testing.T) {
	svc := service.NewOrderService(store.NewMemoryStore(), menu.Default())
	router := setupOrderRouter(svc)

	rr := doRequest(t, router, "POST", "/orders", map[string]interface{}{
		"type":        "dine-in",
		"tableNumber": 5,
		"items": []map[string]interface{}{
			{"id": 3, "quantity": 2},
			{"id": 45, "quantity": 1},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d; body: %s", rr.Code, rr.Body.String())
	}
	created := decodeObject(t, rr)
	if created["orderNumber"] != "ORD001" || created["totalPrice"] != float64(335) || created["status"] != "pending" {
		t.Fatalf("created: %v", created)
	}

	for i := 0; i < 2; i++ {
		rr = doRequest(t, router, "PATCH", fmt.Sprintf("/orders/1/items/%d", i), map[string]bool{"prepared": true})
		if rr.Code != http.StatusOK {
			t.Fatalf("prepare %d: got %d", i, rr.Code)
		}
	}
	rr = doRequest(t, router, "POST", "/orders/1/items", map[string]interface{}{
		"items": []map[string]interface{}{{"id": 3, "quantity": 1}},
	})
	appended := decodeObject(t, rr)
	if n := len(appended["items"].([]interface{})); n != 3 {
		t.Fatalf("items after append: got %d, want 3 (no merge)", n)
	}

	rr = doRequest(t, router, "PATCH", "/orders/1/items/2", map[string]bool{"prepared": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("prepare 2: got %d", rr.Code)
	}

	rr = doRequest(t, router, "PUT", "/orders/1", map[string]string{"status": "completed"})
	if done := decodeObject(t, rr); done["completedAt"] == nil {
		t.Fatalf("completedAt not set: %v", done)
	}
	rr = doRequest(t, router, "PUT", "/orders/1", map[string]string{"status": "pending"})
	if reopened := decodeObject(t, rr); reopened["completedAt"] != nil || reopened["status"] != "pending" {
		t.Fatalf("reopen: %v", reopened)
	}

	if rr := doRequest(t, router, "DELETE", "/orders/42", nil); rr.Code != http.StatusNotFound {
		t.Errorf("delete missing: got %d", rr.Code)
	}
	rr = doRequest(t, router, "GET", "/orders", nil)
	var list []map[string]interface{}
	_ = json.NewDecoder(rr.Body).Decode(&list)
	if len(list) != 1 {
		t.Errorf("orders after failed delete: got %d, want 1", len(list))
	}
}
