// Package report derives management figures from an order snapshot.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
)

// topItemsLimit caps the best-seller list.
const topItemsLimit = 5

// ItemCount is the ordered quantity of one menu item.
type ItemCount struct {
	MenuID   int
	Name     string
	Quantity int
}

// Summary aggregates a snapshot of orders.
type Summary struct {
	TotalOrders    int
	Pending        int
	Completed      int
	DineIn         int
	Takeout        int
	Revenue        decimal.Decimal // completed orders only
	OpenValue      decimal.Decimal // pending orders
	AvgCompletion  time.Duration   // createdAt → completedAt over completed orders
	TopItems       []ItemCount
	OccupiedTables []int // tables with a pending dine-in order, ascending
}

// Summarize computes the summary. It never mutates its input.
func Summarize(orders []domain.Order) Summary {
	s := Summary{
		Revenue:        decimal.Zero,
		OpenValue:      decimal.Zero,
		TopItems:       []ItemCount{},
		OccupiedTables: []int{},
	}

	var completionTotal time.Duration
	counts := make(map[int]*ItemCount)
	tables := make(map[int]struct{})

	for _, o := range orders {
		s.TotalOrders++
		switch o.Type {
		case enum.OrderTypeDineIn:
			s.DineIn++
		case enum.OrderTypeTakeout:
			s.Takeout++
		}

		if o.IsPending() {
			s.Pending++
			s.OpenValue = s.OpenValue.Add(o.TotalPrice())
			if o.TableNumber != nil {
				tables[*o.TableNumber] = struct{}{}
			}
		} else if o.Status == enum.OrderStatusCompleted {
			s.Completed++
			s.Revenue = s.Revenue.Add(o.TotalPrice())
			if o.CompletedAt != nil {
				completionTotal += o.CompletedAt.Sub(o.CreatedAt)
			}
		}

		for _, li := range o.Items {
			c, ok := counts[li.MenuID]
			if !ok {
				c = &ItemCount{MenuID: li.MenuID, Name: li.Name}
				counts[li.MenuID] = c
			}
			c.Quantity += li.Quantity
		}
	}

	if s.Completed > 0 {
		s.AvgCompletion = completionTotal / time.Duration(s.Completed)
	}

	for _, c := range counts {
		s.TopItems = append(s.TopItems, *c)
	}
	sort.Slice(s.TopItems, func(i, j int) bool {
		if s.TopItems[i].Quantity != s.TopItems[j].Quantity {
			return s.TopItems[i].Quantity > s.TopItems[j].Quantity
		}
		return s.TopItems[i].MenuID < s.TopItems[j].MenuID
	})
	if len(s.TopItems) > topItemsLimit {
		s.TopItems = s.TopItems[:topItemsLimit]
	}

	for t := range tables {
		s.OccupiedTables = append(s.OccupiedTables, t)
	}
	sort.Ints(s.OccupiedTables)

	return s
}
