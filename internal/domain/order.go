// Package domain holds the order model shared by the store, the HTTP layer
// and the polling surfaces.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/enum"
)

// LineItem is one menu entry inside an order, addressed by its position.
// Name, Price and Category are copied from the menu when the item is added.
type LineItem struct {
	MenuID   int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes"`
	Prepared bool            `json:"prepared"`
}

// Subtotal is price × quantity, unrounded.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is a placed request with its line items.
// CompletedAt is non-nil iff Status is completed.
type Order struct {
	ID          int64      `json:"id"`
	OrderNumber string     `json:"orderNumber"`
	Type        string     `json:"type"`
	TableNumber *int       `json:"tableNumber"`
	Items       []LineItem `json:"items"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// OrderNumber formats the human-readable number for an identity.
func OrderNumber(id int64) string {
	return fmt.Sprintf("ORD%03d", id)
}

// TotalPrice sums price × quantity over all items and rounds to two decimals.
func (o Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.Items {
		total = total.Add(li.Subtotal())
	}
	return total.Round(2)
}

// IsPending reports whether the order still awaits completion.
func (o Order) IsPending() bool {
	return o.Status == enum.OrderStatusPending
}

// AllPrepared reports whether every item carries the prepared flag.
// An order without items is never considered prepared.
func (o Order) AllPrepared() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, li := range o.Items {
		if !li.Prepared {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so snapshots never alias ledger state.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]LineItem(nil), o.Items...)
	if o.TableNumber != nil {
		t := *o.TableNumber
		c.TableNumber = &t
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// IDSet is a set of order identities.
type IDSet map[int64]struct{}

// Has reports membership.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// PendingIDs collects the identities of pending orders.
func PendingIDs(orders []Order) IDSet {
	ids := make(IDSet)
	for _, o := range orders {
		if o.IsPending() {
			ids[o.ID] = struct{}{}
		}
	}
	return ids
}
