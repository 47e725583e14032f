// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package encoder

import "sync/atomic"

// Counter accumulates signed encoder pulses across the edge/tick boundary.
// The edge context adds ±1 per transition; the sampling tick drains the
// accumulated delta with a single atomic swap. A separate read followed by
// a reset would lose pulses arriving in between, so Drain is the only way
// to consume the count.
type Counter struct {
	pulses int64
}

// NewCounter returns a zeroed pulse counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Add applies a signed pulse adjustment. Safe to call from the edge
// context at any time, including concurrently with Drain.
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.pulses, delta)
}

// Drain returns the net pulse delta accumulated since the previous Drain
// and resets the counter to zero in the same atomic exchange.
func (c *Counter) Drain() int64 {
	return atomic.SwapInt64(&c.pulses, 0)
}
