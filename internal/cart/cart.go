// Package cart holds a dining surface's unsent order lines and submits them
// through the order API.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/client"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/menu"
)

var (
	ErrEmptyCart     = fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	ErrTableRequired = fmt.Errorf("%w: select a table for dine-in orders", domain.ErrValidation)
)

// API is the subset of the order API the cart submits through.
// Satisfied by *client.Client.
type API interface {
	CreateOrder(ctx context.Context, req client.CreateOrderRequest) (domain.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (domain.Order, error)
	AppendItems(ctx context.Context, id int64, items []client.ItemRequest) (domain.Order, error)
}

// Line is one cart entry.
type Line struct {
	Item     menu.Item
	Quantity int
	Notes    string
}

// Subtotal is price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps one line per menu item in insertion order. Safe for
// concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts qty of item in the cart. An item already present has its
// quantity increased and keeps its first notes.
func (c *Cart) Add(item menu.Item, qty int, notes string) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: qty, Notes: notes})
	return nil
}

// SetQuantity changes a line's quantity; zero or less removes it.
func (c *Cart) SetQuantity(menuID, qty int) {
	if qty <= 0 {
		c.Remove(menuID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == menuID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

// Remove drops a line.
func (c *Cart) Remove(menuID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == menuID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Len is the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total sums the line subtotals, rounded to two decimals.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) requests() []client.ItemRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]client.ItemRequest, len(c.lines))
	for i, l := range c.lines {
		out[i] = client.ItemRequest{MenuID: l.Item.ID, Quantity: l.Quantity, Notes: l.Notes}
	}
	return out
}

// PlaceOrder submits the cart as a new order and clears it on success.
// Dine-in orders need a table.
func (c *Cart) PlaceOrder(ctx context.Context, api API, orderType string, table int) (domain.Order, error) {
	items := c.requests()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	if orderType == "" {
		orderType = enum.OrderTypeDineIn
	}
	if orderType == enum.OrderTypeDineIn && table <= 0 {
		return domain.Order{}, ErrTableRequired
	}

	req := client.CreateOrderRequest{Type: orderType, Items: items}
	if orderType == enum.OrderTypeDineIn {
		req.TableNumber = table
	}
	o, err := api.CreateOrder(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("placing order: %w", err)
	}
	c.Clear()
	return o, nil
}

// AddToOrder appends the cart to an existing order and clears it on
// success. A completed target is reopened first so the kitchen sees the
// new lines.
func (c *Cart) AddToOrder(ctx context.Context, api API, target domain.Order) (domain.Order, error) {
	items := c.requests()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	if target.Status == enum.OrderStatusCompleted {
		if _, err := api.SetStatus(ctx, target.ID, enum.OrderStatusPending); err != nil {
			return domain.Order{}, fmt.Errorf("reopening %s: %w", target.OrderNumber, err)
		}
	}

	o, err := api.AppendItems(ctx, target.ID, items)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, fmt.Errorf("%s no longer exists: %w", target.OrderNumber, err)
		}
		return domain.Order{}, fmt.Errorf("adding to %s: %w", target.OrderNumber, err)
	}
	c.Clear()
	return o, nil
}
