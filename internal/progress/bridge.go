// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

// DefaultCapacity is the queue size used when NewBridge gets a non-positive
// capacity.
const DefaultCapacity = 128

// Bridge is a bounded single-producer/single-consumer queue of progress
// values. The conversion goroutine calls Update; the UI calls Drain on a
// fixed timer and renders what it gets in order.
type Bridge struct {
	ch chan int
}

// NewBridge creates a bridge holding at most capacity undelivered values.
func NewBridge(capacity int) *Bridge {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bridge{ch: make(chan int, capacity)}
}

// Update enqueues p, clamped to [0, 100]. It never blocks: when the queue is
// full the oldest undelivered value is dropped, which loses nothing visible
// because values only grow.
func (b *Bridge) Update(p int) {
	p = clamp(p)
	for {
		select {
		case b.ch <- p:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Drain returns every queued value in FIFO order without blocking.
func (b *Bridge) Drain() []int {
	var out []int
	for {
		select {
		case v := <-b.ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
