// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/barsense-tech/vbt_computer/internal/config"
	"github.com/barsense-tech/vbt_computer/internal/encoder"
	"github.com/barsense-tech/vbt_computer/internal/kinematics"
	"github.com/barsense-tech/vbt_computer/internal/telemetry"
)

// clientID appends a short random suffix so several producers can share a
// broker without kicking each other's sessions.
func clientID(base string) string {
	if base == "" {
		base = "vbt-producer"
	}
	return base + "-" + uuid.NewString()[:8]
}

// RunTrackerProducer wires the GPIO quadrature decoder to the kinematics
// tick loop and publishes gated samples over MQTT. This is the normal
// on-device mode: encoder edges → pulse counter → 100 Hz kinematics →
// filter/threshold → gate → sink.
func RunTrackerProducer() error {
	log.Println("starting vbt-computer tracker producer (encoder → MQTT)")

	cfg := config.Get()

	// --- Encoder edge source ---
	counter := encoder.NewCounter()
	decoder := encoder.NewDecoder(counter)

	src, err := encoder.NewGPIOSource(decoder, cfg.EncoderChannelAPin, cfg.EncoderChannelBPin)
	if err != nil {
		log.Fatalf("failed to initialize encoder: %v", err)
		return err
	}
	go src.Run()

	// --- Peripheral sink ---
	sink, err := telemetry.NewMQTTSink(telemetry.MQTTSinkConfig{
		Broker:            cfg.MQTTBroker,
		ClientID:          clientID(cfg.MQTTClientIDProducer),
		TopicVelocity:     cfg.TopicVelocity,
		TopicForce:        cfg.TopicForce,
		TopicDisplacement: cfg.TopicDisplacement,
	})
	if err != nil {
		log.Fatalf("MQTT connect error: %v", err)
		return err
	}

	log.Println("connected to MQTT, starting sampling loop")

	// --- Sampling clock ---
	calc := kinematics.NewCalculator(counter)
	ticker := time.NewTicker(kinematics.SamplePeriod)
	defer ticker.Stop()

	for t := range ticker.C {
		sample, publish := calc.Tick(t)
		if !publish {
			continue
		}
		// Link down: the tick's results are computed but not published;
		// they stay in the filter state for the next tick.
		if !sink.Active() {
			continue
		}
		if err := sink.Notify(sample); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
	return nil
}
