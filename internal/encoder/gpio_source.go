// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package encoder

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOSource reads encoder edges directly from two GPIO pins. Channel A is
// edge-triggered on both edges with a pull-up; channel B is only sampled at
// the moment of each A edge, never edge-triggered itself.
type GPIOSource struct {
	decoder *Decoder
	chanA   gpio.PinIO
	chanB   gpio.PinIO
}

// NewGPIOSource initializes the periph host, claims both encoder pins, and
// arms channel A for edge detection.
func NewGPIOSource(decoder *Decoder, pinA, pinB string) (*GPIOSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("encoder: periph host init: %w", err)
	}

	chanA := gpioreg.ByName(pinA)
	if chanA == nil {
		return nil, fmt.Errorf("encoder: channel A pin %q not found", pinA)
	}
	chanB := gpioreg.ByName(pinB)
	if chanB == nil {
		return nil, fmt.Errorf("encoder: channel B pin %q not found", pinB)
	}

	if err := chanA.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("encoder: arm channel A (%s): %w", pinA, err)
	}
	if err := chanB.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("encoder: configure channel B (%s): %w", pinB, err)
	}

	log.Printf("encoder: channel A on %s (both edges, pull-up), channel B on %s (sampled)", pinA, pinB)

	return &GPIOSource{
		decoder: decoder,
		chanA:   chanA,
		chanB:   chanB,
	}, nil
}

// Run blocks on channel A edges and forwards each one to the decoder.
// It never returns under normal operation; the device runs until power-off.
func (s *GPIOSource) Run() {
	for {
		s.chanA.WaitForEdge(-1)
		a := Level(s.chanA.Read() == gpio.High)
		b := Level(s.chanB.Read() == gpio.High)
		s.decoder.HandleEdge(a, b)
	}
}
