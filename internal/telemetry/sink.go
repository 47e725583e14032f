// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"strconv"

	"github.com/barsense-tech/vbt_computer/internal/kinematics"
)

// Sink is where gated samples go. Notify pushes one sample over the three
// value channels; there is no cross-channel transactionality and no
// feedback channel for backpressure. Active reports whether a downstream
// link is attached.
type Sink interface {
	Notify(s kinematics.Sample) error
	Active() bool
}

// Wire precision per channel. Values travel as decimal text.
const (
	velocityPrecision     = 4
	forcePrecision        = 3
	displacementPrecision = 4
)

// FormatVelocity renders a velocity for the wire (4 decimal places).
func FormatVelocity(v float64) string {
	return strconv.FormatFloat(v, 'f', velocityPrecision, 64)
}

// FormatForce renders a force coefficient for the wire (3 decimal places).
func FormatForce(f float64) string {
	return strconv.FormatFloat(f, 'f', forcePrecision, 64)
}

// FormatDisplacement renders a displacement for the wire (4 decimal places).
func FormatDisplacement(d float64) string {
	return strconv.FormatFloat(d, 'f', displacementPrecision, 64)
}
