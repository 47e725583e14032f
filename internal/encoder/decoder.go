// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package encoder

// Level is the logical state of an encoder channel at an edge.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Decoder converts raw two-channel quadrature transitions into signed
// pulse adjustments on a shared Counter. HandleEdge runs in the edge
// context and preempts the sampling tick, so it must stay bounded and
// branch-only: no blocking calls, no floating point.
type Decoder struct {
	counter *Counter
}

// NewDecoder creates a decoder accumulating into counter.
func NewDecoder(counter *Counter) *Decoder {
	return &Decoder{counter: counter}
}

// HandleEdge processes one transition of channel A. a is the level of
// channel A after the edge; b is channel B sampled at that moment.
//
// Phase comparison: on a falling edge of A, B high means forward and B low
// means reverse; on a rising edge the relation inverts. A bouncing signal
// produces matched ±1 pairs that cancel out in the counter.
func (d *Decoder) HandleEdge(a, b Level) {
	if a == Low { // falling edge of A
		if b == High {
			d.counter.Add(1)
		} else {
			d.counter.Add(-1)
		}
	} else { // rising edge of A
		if b == High {
			d.counter.Add(-1)
		} else {
			d.counter.Add(1)
		}
	}
}
