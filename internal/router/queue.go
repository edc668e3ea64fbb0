package router

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed reports a submission after the owning loop stopped draining.
var ErrQueueClosed = errors.New("router queue closed")

// Envelope pairs one command with its reply slot.
type Envelope struct {
	Cmd   Command
	Reply *Slot
}

// Queue is the owning loop's inbound command queue. Any number of connection
// goroutines submit; exactly one loop consumes. Envelopes are delivered in
// submission order.
type Queue struct {
	ch chan Envelope

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewQueue returns a queue with the given buffer depth.
func NewQueue(depth int) *Queue {
	if depth < 1 {
		depth = 1
	}
	return &Queue{
		ch:   make(chan Envelope, depth),
		done: make(chan struct{}),
	}
}

// Submit enqueues cmd with a fresh slot and returns the slot to wait on.
// It fails with ErrQueueClosed once the consumer has shut down, and with the
// ctx error when the caller gives up before the queue accepts the envelope.
func (q *Queue) Submit(ctx context.Context, cmd Command) (*Slot, error) {
	slot := NewSlot()
	select {
	case <-q.done:
		return nil, ErrQueueClosed
	default:
	}
	select {
	case q.ch <- Envelope{Cmd: cmd, Reply: slot}:
		return slot, nil
	case <-q.done:
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain exposes the consumer side of the queue.
func (q *Queue) Drain() <-chan Envelope {
	return q.ch
}

// Close marks the queue closed and fails pending envelopes so no handler
// waits on a slot that can never be fulfilled. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	for {
		select {
		case env := <-q.ch:
			env.Reply.Fulfill(Outcome{}, ErrQueueClosed)
		default:
			return
		}
	}
}
