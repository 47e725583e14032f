// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package kinematics

import (
	"log"
	"math"
	"time"
)

// Calculator converts drained pulse counts into velocity, displacement,
// and the force coefficient, once per sampling tick. All of its state
// (filter, displacement accumulator, last tick time) is touched only from
// the tick context; the pulse counter is the sole value crossing the
// edge/tick boundary and is consumed through its atomic drain.
type Calculator struct {
	counter PulseSource

	instantaneousVelocity float64
	totalDisplacement     float64
	filter                Filter
	lastTick              time.Time
}

// PulseSource is the drain side of the shared pulse counter.
type PulseSource interface {
	Drain() int64
}

// NewCalculator creates a calculator draining from counter. The first Tick
// only primes the clock; computation starts on the second.
func NewCalculator(counter PulseSource) *Calculator {
	return &Calculator{counter: counter}
}

// Tick runs one sampling cycle at wall-clock time now. It returns the
// sample for this tick and whether the transmission gate passed it for
// publication. ok is false on skipped ticks (zero or negative interval,
// or the priming tick), during which no state is mutated and the counter
// is left undrained; pulses from a skipped interval carry over and are
// divided by the next tick's longer window. That is a known edge case of
// the skip policy, left as is.
func (c *Calculator) Tick(now time.Time) (sample Sample, ok bool) {
	if c.lastTick.IsZero() {
		c.lastTick = now
		return Sample{}, false
	}

	deltaTime := now.Sub(c.lastTick).Seconds()
	if deltaTime <= 0 {
		// Re-entrant or back-to-back invocation. Not expected in normal
		// operation; logged only.
		log.Printf("kinematics: non-positive sampling interval (%.6fs), tick skipped", deltaTime)
		return Sample{}, false
	}

	pulses := c.counter.Drain()
	distance := (float64(pulses) / EncoderResolution) * (2 * math.Pi * WheelRadius)

	rawVelocity := distance / deltaTime
	if math.Abs(rawVelocity) < VelocityNoiseFloor {
		rawVelocity = 0
	}
	c.instantaneousVelocity = rawVelocity
	c.filter.Push(rawVelocity)

	// Independent of the velocity floor: sub-threshold travel in a tick is
	// discarded outright, never deferred to a later tick.
	if math.Abs(distance) >= MinDisplacement {
		c.totalDisplacement += distance
	}

	c.lastTick = now

	sample = Sample{
		Velocity:     c.filter.Mean(),
		Force:        ForceCoefficient(c.instantaneousVelocity),
		Displacement: c.totalDisplacement,
	}
	return sample, ShouldPublish(sample.Velocity, c.instantaneousVelocity)
}

// InstantaneousVelocity returns the last tick's post-floor velocity.
func (c *Calculator) InstantaneousVelocity() float64 {
	return c.instantaneousVelocity
}

// TotalDisplacement returns the running displacement accumulator.
func (c *Calculator) TotalDisplacement() float64 {
	return c.totalDisplacement
}

// FilteredVelocity returns the current moving-average velocity.
func (c *Calculator) FilteredVelocity() float64 {
	return c.filter.Mean()
}
