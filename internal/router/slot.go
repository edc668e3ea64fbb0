package router

import (
	"context"
	"sync/atomic"
)

type reply struct {
	outcome Outcome
	err     error
}

// Slot is a single-use handoff point returning one command result from the
// owning loop to the connection handler that submitted it. The first Fulfill
// wins; later attempts are rejected so a late fulfillment after a dispatch
// timeout is discarded instead of resurrecting an abandoned request.
type Slot struct {
	ch        chan reply
	fulfilled atomic.Bool
}

// NewSlot returns an empty reply slot.
func NewSlot() *Slot {
	return &Slot{ch: make(chan reply, 1)}
}

// Fulfill stores the command result. It reports whether this call was the
// one that fulfilled the slot; a second fulfillment is a defect in the
// caller and is dropped.
func (s *Slot) Fulfill(outcome Outcome, err error) bool {
	if !s.fulfilled.CompareAndSwap(false, true) {
		return false
	}
	s.ch <- reply{outcome: outcome, err: err}
	return true
}

// Wait blocks until the slot is fulfilled or ctx ends. The ctx error is
// returned when the wait is abandoned; the eventual fulfillment, if any, is
// then discarded by the single-use guarantee.
func (s *Slot) Wait(ctx context.Context) (Outcome, error) {
	select {
	case r := <-s.ch:
		return r.outcome, r.err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
