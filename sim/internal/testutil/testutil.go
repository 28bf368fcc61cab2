// Package testutil provides shared test infrastructure for the simulator:
// a virtual clock that never sleeps in wall time and an event sink that
// records what it receives. It has no dependency on sim/ so that sim's own
// tests can import it.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeClock advances virtual time by the requested amount on every Sleep.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Duration
	sleeps  []time.Duration
	holdMin time.Duration
	hold    chan struct{}
}

func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep records d and advances the clock. It fails fast if ctx is done, and
// blocks first if d is at least the threshold set by HoldAtLeast.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	hold := c.hold
	held := hold != nil && d >= c.holdMin
	c.mu.Unlock()
	if held {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	c.sleeps = append(c.sleeps, d)
	return nil
}

// Sleeps returns every duration slept so far, in order.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// HoldAtLeast makes every Sleep of at least d block until release is called.
func (c *FakeClock) HoldAtLeast(d time.Duration) (release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.hold = ch
	c.holdMin = d
	var once sync.Once
	return func() {
		once.Do(func() { close(ch) })
	}
}

// Event is one line captured by RecordingSink.
type Event struct {
	Elapsed time.Duration
	Actor   string
	Event   string
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.Actor, e.Event)
}

// RecordingSink captures emitted events in order.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *RecordingSink) Emit(elapsed time.Duration, actor, event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Elapsed: elapsed, Actor: actor, Event: event})
}

// Events returns a copy of everything emitted so far.
func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Lines returns every event rendered as "actor: event".
func (s *RecordingSink) Lines() []string {
	events := s.Events()
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}
	return lines
}

// Count returns how many events match actor and event exactly.
func (s *RecordingSink) Count(actor, event string) int {
	n := 0
	for _, e := range s.Events() {
		if e.Actor == actor && e.Event == event {
			n++
		}
	}
	return n
}
