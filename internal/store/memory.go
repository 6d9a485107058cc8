// Package store provides the authoritative in-memory order ledger.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
)

// NewLineItem is an item to add to an order. Menu fields are already
// resolved by the caller.
type NewLineItem struct {
	MenuID   int             `validate:"required"`
	Name     string          `validate:"required"`
	Price    decimal.Decimal
	Category string
	Quantity int `validate:"gt=0"`
	Notes    string
}

// NewOrder is the input for CreateOrder. TableNumber is ignored for takeout.
type NewOrder struct {
	Type        string        `validate:"oneof=dine-in takeout"`
	TableNumber int           `validate:"required_if=Type dine-in,gte=0"`
	Items       []NewLineItem `validate:"required,min=1,dive"`
}

type appendItems struct {
	Items []NewLineItem `validate:"required,min=1,dive"`
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// MemoryStore keeps orders in insertion order with O(1) lookup by ID.
// A single mutex serializes every mutation, so concurrent appends queue
// instead of overwriting each other. Safe for concurrent access.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	seq    []int64
	lastID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty ledger. IDs start at 1.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		orders: make(map[int64]*domain.Order),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates the input, assigns the next identity and stores a
// pending order.
func (s *MemoryStore) CreateOrder(ctx context.Context, in NewOrder) (domain.Order, error) {
	if err := validateInput(in); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	o := &domain.Order{
		ID:          s.lastID,
		OrderNumber: domain.OrderNumber(s.lastID),
		Type:        in.Type,
		Items:       toLineItems(in.Items),
		Status:      enum.OrderStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if in.Type == enum.OrderTypeDineIn {
		table := in.TableNumber
		o.TableNumber = &table
	}

	s.orders[o.ID] = o
	s.seq = append(s.seq, o.ID)
	return o.Clone(), nil
}

// ListOrders returns orders in creation order. An empty status returns all.
func (s *MemoryStore) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.seq))
	for _, id := range s.seq {
		o := s.orders[id]
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

// GetOrder returns a copy of the order.
func (s *MemoryStore) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, orderNotFound(id)
	}
	return o.Clone(), nil
}

// SetStatus applies the status transition rule: pending→completed stamps
// CompletedAt, any→pending clears it, everything else is a silent no-op so
// client retries stay idempotent.
func (s *MemoryStore) SetStatus(ctx context.Context, id int64, status string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, orderNotFound(id)
	}

	switch {
	case status == enum.OrderStatusCompleted && o.Status == enum.OrderStatusPending:
		now := s.now().UTC()
		o.Status = enum.OrderStatusCompleted
		o.CompletedAt = &now
	case status == enum.OrderStatusPending:
		o.Status = enum.OrderStatusPending
		o.CompletedAt = nil
	}
	return o.Clone(), nil
}

// AppendItems appends the items to the order as new line entries. Items are
// never merged with existing entries, even for the same menu item.
func (s *MemoryStore) AppendItems(ctx context.Context, id int64, items []NewLineItem) (domain.Order, error) {
	if err := validateInput(appendItems{Items: items}); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, orderNotFound(id)
	}
	o.Items = append(o.Items, toLineItems(items)...)
	return o.Clone(), nil
}

// SetItemPrepared sets the prepared flag of the item at index.
func (s *MemoryStore) SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, orderNotFound(id)
	}
	if index < 0 || index >= len(o.Items) {
		return domain.Order{}, fmt.Errorf("order %d item %d: %w", id, index, domain.ErrNotFound)
	}
	o.Items[index].Prepared = prepared
	return o.Clone(), nil
}

// DeleteOrder removes the order and returns it.
func (s *MemoryStore) DeleteOrder(ctx context.Context, id int64) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, orderNotFound(id)
	}
	delete(s.orders, id)
	for i, sid := range s.seq {
		if sid == id {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
	return *o, nil
}

func toLineItems(items []NewLineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			MenuID:   it.MenuID,
			Name:     it.Name,
			Price:    it.Price,
			Category: it.Category,
			Quantity: it.Quantity,
			Notes:    it.Notes,
		}
	}
	return out
}

func orderNotFound(id int64) error {
	return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
}
