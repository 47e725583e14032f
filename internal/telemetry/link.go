// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import "sync/atomic"

// LinkListener receives connection lifecycle events from the transport
// layer. The core never holds a reference back into the transport; it only
// observes the resulting active flag.
type LinkListener interface {
	OnConnect()
	OnDisconnect()
}

// LinkState is the boolean "link active" flag behind the transmission
// gate. It is written by the transport's callbacks and read lock-free by
// the publish path; a connect or disconnect racing one tick may skip or
// spuriously attempt at most that tick's publication, which the transport
// tolerates by validating its own state on write.
type LinkState struct {
	active atomic.Bool
}

// OnConnect marks the link active.
func (l *LinkState) OnConnect() {
	l.active.Store(true)
}

// OnDisconnect marks the link inactive. Resuming discoverability is the
// transport layer's job, not ours.
func (l *LinkState) OnDisconnect() {
	l.active.Store(false)
}

// Active reports whether a downstream link is attached.
func (l *LinkState) Active() bool {
	return l.active.Load()
}
