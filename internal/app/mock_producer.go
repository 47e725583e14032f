// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"math"
	"time"

	"github.com/barsense-tech/vbt_computer/internal/config"
	"github.com/barsense-tech/vbt_computer/internal/encoder"
	"github.com/barsense-tech/vbt_computer/internal/kinematics"
	"github.com/barsense-tech/vbt_computer/internal/telemetry"
)

const (
	// Synthetic rep profile: ~0.7 m/s peak concentric, 3 s per full cycle.
	mockPeakVelocity = 0.7
	mockRepPeriod    = 3 * time.Second
	mockEdgePeriod   = time.Millisecond
)

// mockEncoder injects synthetic pulses into a real Counter following a
// sinusoidal rep profile, so the whole core runs without hardware.
type mockEncoder struct {
	counter *encoder.Counter
	start   time.Time
	// carry holds the fractional pulse left over from the previous
	// injection, so slow phases still emit their share over time.
	carry float64
}

func newMockEncoder(counter *encoder.Counter) *mockEncoder {
	return &mockEncoder{counter: counter, start: time.Now()}
}

// Run emits pulses every millisecond matching the profile velocity.
func (m *mockEncoder) Run() {
	last := time.Now()
	ticker := time.NewTicker(mockEdgePeriod)
	defer ticker.Stop()

	for now := range ticker.C {
		dt := now.Sub(last).Seconds()
		last = now

		elapsed := now.Sub(m.start).Seconds()
		v := mockPeakVelocity * math.Sin(2*math.Pi*elapsed/mockRepPeriod.Seconds())

		// Invert the unit conversion the calculator applies:
		// pulses = v·dt·resolution / (2π·radius).
		exact := v*dt*kinematics.EncoderResolution/(2*math.Pi*kinematics.WheelRadius) + m.carry
		whole := math.Trunc(exact)
		m.carry = exact - whole

		if whole != 0 {
			m.counter.Add(int64(whole))
		}
	}
}

// RunMockProducer drives the kinematics core with a synthetic barbell rep
// generator and publishes over MQTT, for development without an encoder.
func RunMockProducer() error {
	log.Println("starting vbt-computer mock producer (synthetic reps → MQTT)")

	cfg := config.Get()

	counter := encoder.NewCounter()
	go newMockEncoder(counter).Run()

	sink, err := telemetry.NewMQTTSink(telemetry.MQTTSinkConfig{
		Broker:            cfg.MQTTBroker,
		ClientID:          clientID(cfg.MQTTClientIDProducer) + "-mock",
		TopicVelocity:     cfg.TopicVelocity,
		TopicForce:        cfg.TopicForce,
		TopicDisplacement: cfg.TopicDisplacement,
	})
	if err != nil {
		log.Fatalf("MQTT connect error: %v", err)
		return err
	}

	calc := kinematics.NewCalculator(counter)
	ticker := time.NewTicker(kinematics.SamplePeriod)
	defer ticker.Stop()

	logEvery := 0
	for t := range ticker.C {
		sample, publish := calc.Tick(t)
		if publish && sink.Active() {
			if err := sink.Notify(sample); err != nil {
				log.Printf("publish error: %v", err)
			}
		}

		// One status line per second, published or not.
		logEvery++
		if logEvery%100 == 0 {
			log.Printf("mock tick: v=%.4f m/s force=%.3f disp=%.4f m published=%t",
				sample.Velocity, sample.Force, sample.Displacement, publish)
		}
	}
	return nil
}
