// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/barsense-tech/vbt_computer/internal/kinematics"
)

// publisher is the slice of the MQTT client the sink actually uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes samples to three independent topics, one per value,
// as fixed-precision decimal text. QoS 0, fire and forget: a publish with
// no subscriber is a no-op as far as the core is concerned, and a slow
// consumer is the broker's problem.
type MQTTSink struct {
	client            publisher
	link              *LinkState
	topicVelocity     string
	topicForce        string
	topicDisplacement string
}

// MQTTSinkConfig names the broker connection and the three value topics.
type MQTTSinkConfig struct {
	Broker            string
	ClientID          string
	TopicVelocity     string
	TopicForce        string
	TopicDisplacement string
}

// NewMQTTSink connects to the broker and wires the connection lifecycle
// callbacks into the link-active flag. Auto-reconnect is left on so a
// dropped link flips the flag false, publication pauses, and resumes when
// the client re-establishes the session.
func NewMQTTSink(cfg MQTTSinkConfig) (*MQTTSink, error) {
	link := &LinkState{}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(_ mqtt.Client) {
			log.Printf("telemetry: link up (%s)", cfg.Broker)
			link.OnConnect()
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("telemetry: link lost: %v", err)
			link.OnDisconnect()
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: MQTT connect: %w", token.Error())
	}

	return &MQTTSink{
		client:            client,
		link:              link,
		topicVelocity:     cfg.TopicVelocity,
		topicForce:        cfg.TopicForce,
		topicDisplacement: cfg.TopicDisplacement,
	}, nil
}

// Active reports whether the broker link is currently up.
func (s *MQTTSink) Active() bool {
	return s.link.Active()
}

// Notify writes the three values as three independent channel writes.
// There is no transaction across them; a consumer can observe a velocity
// from one tick next to a displacement from the previous one.
func (s *MQTTSink) Notify(sample kinematics.Sample) error {
	if token := s.client.Publish(s.topicVelocity, 0, false, FormatVelocity(sample.Velocity)); token.Wait() && token.Error() != nil {
		return fmt.Errorf("telemetry: publish velocity: %w", token.Error())
	}
	if token := s.client.Publish(s.topicForce, 0, false, FormatForce(sample.Force)); token.Wait() && token.Error() != nil {
		return fmt.Errorf("telemetry: publish force: %w", token.Error())
	}
	if token := s.client.Publish(s.topicDisplacement, 0, false, FormatDisplacement(sample.Displacement)); token.Wait() && token.Error() != nil {
		return fmt.Errorf("telemetry: publish displacement: %w", token.Error())
	}
	return nil
}
