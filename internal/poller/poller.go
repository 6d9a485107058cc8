// Package poller runs the client side of order synchronization: it pulls
// the full order list on a fixed interval, raises new-order alerts, and
// keeps the kitchen checklist derived from the server's prepared flags.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/logger"
	"github.com/subo-hems/api/internal/notify"
)

// DefaultInterval is the time between two polls.
const DefaultInterval = 3 * time.Second

// API is the subset of the order API a surface needs.
// Satisfied by *client.Client; narrow interface for testability.
type API interface {
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	SetItemPrepared(ctx context.Context, id int64, index int, prepared bool) (domain.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (domain.Order, error)
}

// State is the alert state of a surface.
type State int

const (
	// StateInitializing waits for the first successful fetch, which only
	// records a baseline.
	StateInitializing State = iota
	// StateIdle alerts on the next new pending order.
	StateIdle
	// StateAlertArmed has alerted already and stays quiet until the pending
	// set drains to empty.
	StateAlertArmed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateIdle:
		return "idle"
	case StateAlertArmed:
		return "alert-armed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is a copy of the surface's local view.
type Snapshot struct {
	State    State
	Orders   []domain.Order
	Pending  domain.IDSet
	Checked  map[int64][]bool
	LastErr  error
	LastPoll time.Time
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// WithName labels log lines, e.g. "kitchen".
func WithName(name string) Option {
	return func(p *Poller) {
		p.name = name
	}
}

// WithOnUpdate registers a callback invoked after every applied poll.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

// Poller is one surface's synchronization loop. Safe for concurrent use.
type Poller struct {
	api      API
	sink     notify.Sink
	log      *logger.Logger
	name     string
	interval time.Duration
	onUpdate func(Snapshot)

	mu       sync.Mutex
	state    State
	orders   []domain.Order
	pending  domain.IDSet
	checked  map[int64][]bool
	lastErr  error
	lastPoll time.Time
}

// New creates a poller in StateInitializing.
func New(api API, sink notify.Sink, opts ...Option) *Poller {
	p := &Poller{
		api:      api,
		sink:     sink,
		log:      logger.Discard(),
		name:     "surface",
		interval: DefaultInterval,
		pending:  make(domain.IDSet),
		checked:  make(map[int64][]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = notify.NoOp{}
	}
	return p
}

// Run polls once immediately and then on every tick until ctx is
// cancelled. Each poll runs in its own goroutine so a slow fetch never
// delays the next tick; responses are applied in completion order.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	launch := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Poll(ctx)
		}()
	}

	p.log.Info("%s: polling every %s", p.name, p.interval)
	launch()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			p.log.Info("%s: polling stopped", p.name)
			return
		case <-ticker.C:
			launch()
		}
	}
}

// Poll fetches the full order list and applies it. A failed fetch leaves
// local state untouched and is retried by the next tick.
func (p *Poller) Poll(ctx context.Context) error {
	orders, err := p.api.ListOrders(ctx, "")
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		p.log.Warn("%s: fetching orders: %v", p.name, err)
		return err
	}
	p.apply(ctx, orders)
	return nil
}

// apply runs the alert transition and replaces the local snapshot.
func (p *Poller) apply(ctx context.Context, orders []domain.Order) {
	cur := domain.PendingIDs(orders)

	p.mu.Lock()
	var arrivals []int64
	switch p.state {
	case StateInitializing:
		p.log.Debug("%s: baseline of %d pending order(s)", p.name, len(cur))
		p.state = StateIdle
	default:
		if notify.ShouldAlert(p.pending, cur, p.state == StateAlertArmed) {
			arrivals = notify.Arrivals(p.pending, cur)
			p.state = StateAlertArmed
		}
		if len(cur) == 0 {
			p.state = StateIdle
		}
	}

	p.orders = orders
	p.pending = cur
	p.checked = make(map[int64][]bool, len(orders))
	for _, o := range orders {
		p.checked[o.ID] = preparedFlags(o)
	}
	p.lastErr = nil
	p.lastPoll = time.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if len(arrivals) > 0 {
		if err := p.sink.Alert(ctx, arrivals); err != nil {
			p.log.Error("%s: alert: %v", p.name, err)
		}
	}
	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
}

// Snapshot returns a copy of the local view.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// State returns the current alert state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Checked returns the checklist of one order.
func (p *Poller) Checked(id int64) []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.checked[id]...)
}

// AllChecked reports whether every item of the order is checked. Orders
// without items never are.
func (p *Poller) AllChecked(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return allTrue(p.checked[id])
}

// TogglePrepared flips one checklist entry locally, confirms it with the
// server and reconciles from the answer. On failure the entry is rolled
// back to its prior value.
func (p *Poller) TogglePrepared(ctx context.Context, id int64, index int) error {
	p.mu.Lock()
	flags, ok := p.checked[id]
	if !ok || index < 0 || index >= len(flags) {
		p.mu.Unlock()
		return fmt.Errorf("order %d item %d: %w", id, index, domain.ErrNotFound)
	}
	prev := flags[index]
	flags[index] = !prev
	p.mu.Unlock()

	o, err := p.api.SetItemPrepared(ctx, id, index, !prev)
	if err != nil {
		p.mu.Lock()
		if flags, ok := p.checked[id]; ok && index < len(flags) {
			flags[index] = prev
		}
		p.lastErr = err
		p.mu.Unlock()
		p.log.Error("%s: marking %s item %d: %v", p.name, domain.OrderNumber(id), index, err)
		return err
	}

	p.reconcile(o)
	return nil
}

// Complete marks an order completed once every item is checked locally.
func (p *Poller) Complete(ctx context.Context, id int64) error {
	p.mu.Lock()
	ready := allTrue(p.checked[id])
	p.mu.Unlock()
	if !ready {
		return fmt.Errorf("%s: %w", domain.OrderNumber(id), domain.ErrNotReady)
	}

	o, err := p.api.SetStatus(ctx, id, enum.OrderStatusCompleted)
	if err != nil {
		p.log.Error("%s: completing %s: %v", p.name, domain.OrderNumber(id), err)
		return err
	}
	p.reconcile(o)
	return nil
}

// Reset sends a completed order back to pending and clears its local
// checklist. The next poll rebuilds the checklist from the server.
func (p *Poller) Reset(ctx context.Context, id int64) error {
	o, err := p.api.SetStatus(ctx, id, enum.OrderStatusPending)
	if err != nil {
		p.log.Error("%s: resetting %s: %v", p.name, domain.OrderNumber(id), err)
		return err
	}

	p.reconcile(o)
	p.mu.Lock()
	p.checked[id] = make([]bool, len(o.Items))
	p.mu.Unlock()
	return nil
}

// Delete removes an order on the server and from the local view.
func (p *Poller) Delete(ctx context.Context, id int64) error {
	if _, err := p.api.DeleteOrder(ctx, id); err != nil {
		p.log.Error("%s: deleting %s: %v", p.name, domain.OrderNumber(id), err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.checked, id)
	for i, o := range p.orders {
		if o.ID == id {
			p.orders = append(p.orders[:i:i], p.orders[i+1:]...)
			break
		}
	}
	return nil
}

// reconcile replaces one order in the local view with the server's answer.
// The pending set is only moved by polls.
func (p *Poller) reconcile(o domain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.orders {
		if p.orders[i].ID == o.ID {
			p.orders[i] = o
			break
		}
	}
	p.checked[o.ID] = preparedFlags(o)
}

func (p *Poller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    p.state,
		Orders:   make([]domain.Order, len(p.orders)),
		Pending:  make(domain.IDSet, len(p.pending)),
		Checked:  make(map[int64][]bool, len(p.checked)),
		LastErr:  p.lastErr,
		LastPoll: p.lastPoll,
	}
	for i, o := range p.orders {
		s.Orders[i] = o.Clone()
	}
	for id := range p.pending {
		s.Pending[id] = struct{}{}
	}
	for id, flags := range p.checked {
		s.Checked[id] = append([]bool(nil), flags...)
	}
	return s
}

func preparedFlags(o domain.Order) []bool {
	flags := make([]bool, len(o.Items))
	for i, li := range o.Items {
		flags[i] = li.Prepared
	}
	return flags
}

func allTrue(flags []bool) bool {
	if len(flags) == 0 {
		return false
	}
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}
