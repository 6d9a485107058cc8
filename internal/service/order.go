package service

import (
	"context"
	"fmt"

	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/menu"
	"github.com/subo-hems/api/internal/report"
	"github.com/subo-hems/api/internal/store"
)

// Errors returned by the order service.
var (
	ErrEmptyItems       = fmt.Errorf("%w: items are required", domain.ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
	ErrMenuItemNotFound = fmt.Errorf("%w: menu item not found", domain.ErrValidation)
)

// OrderStore defines the ledger methods needed by the service.
// Satisfied by *store.MemoryStore; narrow interface for testability.
type OrderStore interface {
	CreateOrder(ctx context.Context, in store.NewOrder) (domain.Order, error)
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (domain.Order, error)
	AppendItems(ctx context.Context, id int64, items []store.NewLineItem) (domain.Order, error)
	SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (domain.Order, error)
}

// MenuLookup resolves menu references. Satisfied by *menu.Catalog.
type MenuLookup interface {
	Lookup(id int) (menu.Item, bool)
}

// CreateOrderRequest is the input for placing an order.
type CreateOrderRequest struct {
	Type        string
	TableNumber int
	Items       []ItemRequest
}

// ItemRequest references a menu item by ID.
type ItemRequest struct {
	MenuID   int
	Quantity int
	Notes    string
}

// Option configures an OrderService.
type Option func(*OrderService)

// WithPreparedGate makes the service reject completion of orders that still
// have unprepared items. Off by default: the kitchen surface enforces it.
func WithPreparedGate(enabled bool) Option {
	return func(s *OrderService) {
		s.requirePrepared = enabled
	}
}

// OrderService layers lifecycle rules over the order store.
type OrderService struct {
	store           OrderStore
	menu            MenuLookup
	requirePrepared bool
}

// NewOrderService creates a new OrderService.
func NewOrderService(st OrderStore, m MenuLookup, opts ...Option) *OrderService {
	s := &OrderService{store: st, menu: m}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder resolves the items against the menu and stores a pending order.
// The type defaults to dine-in.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	items, err := s.resolveItems(req.Items)
	if err != nil {
		return domain.Order{}, err
	}

	orderType := req.Type
	if orderType == "" {
		orderType = enum.OrderTypeDineIn
	}

	return s.store.CreateOrder(ctx, store.NewOrder{
		Type:        orderType,
		TableNumber: req.TableNumber,
		Items:       items,
	})
}

// ListOrders returns orders in creation order, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	return s.store.ListOrders(ctx, status)
}

// GetOrder returns a single order.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateStatus applies the store transition rule, guarded by the optional
// prepared gate.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (domain.Order, error) {
	if s.requirePrepared && status == enum.OrderStatusCompleted {
		current, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return domain.Order{}, err
		}
		if current.IsPending() && !current.AllPrepared() {
			return domain.Order{}, fmt.Errorf("order %s: %w", current.OrderNumber, domain.ErrNotReady)
		}
	}
	return s.store.SetStatus(ctx, id, status)
}

// AppendItems resolves and appends items. Completed orders accept items too;
// reopening them is a separate status command issued by the caller.
func (s *OrderService) AppendItems(ctx context.Context, id int64, reqItems []ItemRequest) (domain.Order, error) {
	items, err := s.resolveItems(reqItems)
	if err != nil {
		return domain.Order{}, err
	}
	return s.store.AppendItems(ctx, id, items)
}

// SetItemPrepared toggles the prepared flag of one item.
func (s *OrderService) SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error) {
	return s.store.SetItemPrepared(ctx, id, index, prepared)
}

// DeleteOrder removes an order and returns it.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.store.DeleteOrder(ctx, id)
}

// Dashboard summarizes the whole ledger for management.
func (s *OrderService) Dashboard(ctx context.Context) (report.Summary, error) {
	orders, err := s.store.ListOrders(ctx, "")
	if err != nil {
		return report.Summary{}, fmt.Errorf("list orders: %w", err)
	}
	return report.Summarize(orders), nil
}

// resolveItems copies name, price and category from the menu so later menu
// changes never touch placed orders.
func (s *OrderService) resolveItems(reqItems []ItemRequest) ([]store.NewLineItem, error) {
	if len(reqItems) == 0 {
		return nil, ErrEmptyItems
	}

	items := make([]store.NewLineItem, len(reqItems))
	for i, it := range reqItems {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		m, ok := s.menu.Lookup(it.MenuID)
		if !ok {
			return nil, fmt.Errorf("items[%d] (id %d): %w", i, it.MenuID, ErrMenuItemNotFound)
		}
		items[i] = store.NewLineItem{
			MenuID:   m.ID,
			Name:     m.Name,
			Price:    m.Price,
			Category: m.Category,
			Quantity: it.Quantity,
			Notes:    it.Notes,
		}
	}
	return items, nil
}
