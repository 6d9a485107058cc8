// Package notify decides when a surface should signal new orders and
// delivers that signal to pluggable sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/logger"
)

// ShouldAlert reports whether cur holds an identity absent from prev while
// no alert is suppressed. It has no side effects.
func ShouldAlert(prev, cur domain.IDSet, suppressed bool) bool {
	if suppressed {
		return false
	}
	for id := range cur {
		if !prev.Has(id) {
			return true
		}
	}
	return false
}

// Arrivals returns the identities in cur that are missing from prev,
// ascending.
func Arrivals(prev, cur domain.IDSet) []int64 {
	var out []int64
	for id := range cur {
		if !prev.Has(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sink realizes a new-order signal (sound, banner, log line).
type Sink interface {
	Alert(ctx context.Context, ids []int64) error
}

// Compile-time interface checks.
var (
	_ Sink = NoOp{}
	_ Sink = (*LogSink)(nil)
	_ Sink = (*BellSink)(nil)
	_ Sink = Fanout(nil)
)

// NoOp discards every alert.
type NoOp struct{}

// Alert does nothing.
func (NoOp) Alert(context.Context, []int64) error { return nil }

// LogSink writes one info line per alert.
type LogSink struct {
	log    *logger.Logger
	prefix string
}

// NewLogSink creates a sink that logs through l. The prefix names the
// surface, e.g. "kitchen".
func NewLogSink(l *logger.Logger, prefix string) *LogSink {
	return &LogSink{log: l, prefix: prefix}
}

// Alert logs the new order numbers.
func (s *LogSink) Alert(_ context.Context, ids []int64) error {
	nums := make([]string, len(ids))
	for i, id := range ids {
		nums[i] = domain.OrderNumber(id)
	}
	s.log.Info("[%s] new order(s): %s", s.prefix, strings.Join(nums, ", "))
	return nil
}

// BellSink rings the terminal bell on the given writer.
type BellSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBellSink creates a bell sink writing to out.
func NewBellSink(out io.Writer) *BellSink {
	return &BellSink{out: out}
}

// Alert writes a single BEL character.
func (s *BellSink) Alert(context.Context, []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.out, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Fanout delivers an alert to every sink and joins their errors.
type Fanout []Sink

// Alert calls each sink in order. A failing sink does not stop the rest.
func (f Fanout) Alert(ctx context.Context, ids []int64) error {
	var errs []error
	for _, s := range f {
		if err := s.Alert(ctx, ids); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
