// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"time"

	"github.com/barsense-tech/vbt_computer/internal/config"
	"github.com/barsense-tech/vbt_computer/internal/encoder"
	"github.com/barsense-tech/vbt_computer/internal/kinematics"
	"github.com/barsense-tech/vbt_computer/internal/telemetry"
)

// RunSerialProducer runs the same pipeline as the tracker producer, but
// takes encoder edges from a tethered microcontroller streaming "<a>,<b>"
// lines over a serial port instead of local GPIO.
func RunSerialProducer() error {
	log.Println("starting vbt-computer serial producer (tethered encoder → MQTT)")

	cfg := config.Get()

	counter := encoder.NewCounter()
	decoder := encoder.NewDecoder(counter)

	src, err := encoder.NewSerialSource(decoder, cfg.SerialPort, uint(cfg.SerialBaudRate))
	if err != nil {
		log.Fatalf("failed to open encoder tether: %v", err)
		return err
	}

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

	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Run()
	}()

	calc := kinematics.NewCalculator(counter)
	ticker := time.NewTicker(kinematics.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			// A dead tether means a flatlined output either way; stop.
			return err
		case t := <-ticker.C:
			sample, publish := calc.Tick(t)
			if !publish || !sink.Active() {
				continue
			}
			if err := sink.Notify(sample); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
	}
}
