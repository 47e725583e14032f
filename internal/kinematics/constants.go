// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package kinematics

import "time"

// Signal-path constants. These are part of the unit conversion and the
// noise model, fixed at build time; changing EncoderResolution or
// SamplePeriod changes the pulse-to-distance conversion and must be kept
// consistent with the installed encoder and spool.
const (
	// EncoderResolution is the encoder's pulses per revolution.
	EncoderResolution = 1000

	// WheelRadius is the cable spool radius in meters.
	WheelRadius = 0.0093

	// SamplePeriod is the kinematics tick cadence (100 Hz).
	SamplePeriod = 10 * time.Millisecond

	// VelocityNoiseFloor: instantaneous velocities below this magnitude
	// (m/s) are jitter, reported as exactly zero.
	VelocityNoiseFloor = 0.01

	// MinDisplacement: a single tick's travel below this magnitude (m) is
	// discarded rather than added to the displacement accumulator, so
	// jitter cannot inflate it over thousands of ticks.
	MinDisplacement = 0.002

	// FilteredPublishThreshold and InstantPublishThreshold gate what gets
	// pushed downstream. Deliberately low and overlapping: borderline reps
	// are over-reported rather than missed.
	FilteredPublishThreshold = 0.003
	InstantPublishThreshold  = 0.005

	// GravityCoefficient is the constant term of the force proxy.
	GravityCoefficient = 9.80665

	// FilterDepth is the moving-average window, chosen empirically for
	// responsiveness vs. smoothness.
	FilterDepth = 5
)
