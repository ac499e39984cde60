// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress fabricates a conversion progress percentage and carries it
// from the conversion goroutine to whoever renders it.
//
// None of the office backends report real progress. The Estimator produces a
// monotonic synthetic ramp in three phases (startup 0-30, conversion 30-96,
// finalization 96-100); the Bridge is the bounded queue a UI drains on a
// timer.
package progress

// Sink receives progress percentages in [0, 100].
type Sink interface {
	Update(percent int)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(percent int)

// Update calls f(percent).
func (f SinkFunc) Update(percent int) { f(percent) }

// Discard is a Sink that drops every value.
var Discard Sink = SinkFunc(func(int) {})

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Monotonic forwards clamped values to a Sink and drops any value that does
// not exceed the last one forwarded. It belongs to a single producer and is
// not safe for concurrent use.
type Monotonic struct {
	sink    Sink
	last    int
	started bool
}

// NewMonotonic wraps sink. A nil sink discards.
func NewMonotonic(sink Sink) *Monotonic {
	if sink == nil {
		sink = Discard
	}
	return &Monotonic{sink: sink}
}

// Update forwards p if it moves the value forward.
func (m *Monotonic) Update(p int) {
	p = clamp(p)
	if m.started && p <= m.last {
		return
	}
	m.started = true
	m.last = p
	m.sink.Update(p)
}

// Value returns the last value forwarded.
func (m *Monotonic) Value() int {
	return m.last
}
