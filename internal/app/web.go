// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fogleman/gg"
	"github.com/gorilla/websocket"
	"golang.org/x/image/font/basicfont"

	"github.com/barsense-tech/vbt_computer/internal/config"
	"github.com/barsense-tech/vbt_computer/internal/kinematics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsWriteTimeout bounds how long one client can stall a broadcast before
// it is dropped.
const wsWriteTimeout = 2 * time.Second

// webState holds the latest values from the three topics plus a ring of
// recent velocities for the rendered trace.
type webState struct {
	mu         sync.RWMutex
	last       kinematics.Sample
	haveSample bool

	trace  []float64
	cursor int
	filled bool

	// wsMu serializes WebSocket writes. It is separate from mu so a slow
	// client never blocks state updates, only other broadcasts, and those
	// only up to the write deadline.
	wsMu    sync.Mutex
	clients map[*websocket.Conn]bool
}

func newWebState(traceDepth int) *webState {
	if traceDepth < 2 {
		traceDepth = 500
	}
	return &webState{
		trace:   make([]float64, traceDepth),
		clients: make(map[*websocket.Conn]bool),
	}
}

func (s *webState) setVelocity(v float64) {
	s.mu.Lock()
	s.last.Velocity = v
	s.haveSample = true
	s.trace[s.cursor] = v
	s.cursor = (s.cursor + 1) % len(s.trace)
	if s.cursor == 0 {
		s.filled = true
	}
	sample := s.last
	s.mu.Unlock()

	s.broadcast(sample)
}

func (s *webState) setForce(f float64) {
	s.mu.Lock()
	s.last.Force = f
	s.mu.Unlock()
}

func (s *webState) setDisplacement(d float64) {
	s.mu.Lock()
	s.last.Displacement = d
	s.mu.Unlock()
}

// traceSnapshot returns the velocity history oldest-first.
func (s *webState) traceSnapshot() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.filled {
		out := make([]float64, s.cursor)
		copy(out, s.trace[:s.cursor])
		return out
	}
	out := make([]float64, 0, len(s.trace))
	out = append(out, s.trace[s.cursor:]...)
	out = append(out, s.trace[:s.cursor]...)
	return out
}

// broadcast pushes the sample to every connected WebSocket client,
// dropping clients whose writes fail or time out. The state lock is only
// held to snapshot the client set, never across a write.
func (s *webState) broadcast(sample kinematics.Sample) {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(sample); err != nil {
			log.Printf("web: websocket write error, dropping client: %v", err)
			s.dropClient(conn)
		}
	}
}

// dropClient unregisters and closes a client. Safe to call twice for the
// same connection.
func (s *webState) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clients[conn] {
		delete(s.clients, conn)
		conn.Close()
	}
}

// RunWeb subscribes to the three value topics and serves a small dashboard:
// latest sample as JSON, a rendered velocity trace, and a live WebSocket
// stream, plus static files from ./web.
func RunWeb() error {
	cfg := config.Get()
	state := newWebState(cfg.TraceHistory)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID(cfg.MQTTClientIDWeb))

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the three value topics
	subscriptions := []struct {
		topic string
		apply func(float64)
	}{
		{cfg.TopicVelocity, state.setVelocity},
		{cfg.TopicForce, state.setForce},
		{cfg.TopicDisplacement, state.setDisplacement},
	}
	for _, sub := range subscriptions {
		apply := sub.apply
		token := client.Subscribe(sub.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			v, err := strconv.ParseFloat(string(msg.Payload()), 64)
			if err != nil {
				log.Printf("web: payload parse error on %s: %v", msg.Topic(), err)
				return
			}
			apply(v)
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("web: subscribed to %s", sub.topic)
	}

	// 3) JSON API endpoint: latest sample
	http.HandleFunc("/api/sample", func(w http.ResponseWriter, r *http.Request) {
		state.mu.RLock()
		defer state.mu.RUnlock()

		if !state.haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state.last); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Rendered velocity trace
	http.HandleFunc("/api/trace.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		if err := renderTrace(w, state.traceSnapshot()); err != nil {
			log.Printf("web: trace render error: %v", err)
		}
	})

	// 5) Live sample stream
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		state.mu.Lock()
		state.clients[conn] = true
		state.mu.Unlock()
		log.Printf("web: websocket client connected (%s)", r.RemoteAddr)

		// Reader loop only to detect close; the core pushes, never pulls.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					state.dropClient(conn)
					return
				}
			}
		}()
	})

	// 6) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

const (
	traceWidth  = 640
	traceHeight = 240
)

// renderTrace draws the velocity history as a line chart and encodes it as
// PNG into w.
func renderTrace(w http.ResponseWriter, trace []float64) error {
	dc := gg.NewContext(traceWidth, traceHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawString("velocity (m/s)", 8, 16)

	// Symmetric scale around zero so eccentric phases read below the axis.
	max := 0.1
	for _, v := range trace {
		if v > max {
			max = v
		}
		if -v > max {
			max = -v
		}
	}

	mid := float64(traceHeight) / 2
	dc.SetRGB(0.8, 0.8, 0.8)
	dc.DrawLine(0, mid, traceWidth, mid)
	dc.Stroke()

	if len(trace) < 2 {
		return dc.EncodePNG(w)
	}

	dc.SetRGB(0.1, 0.4, 0.8)
	dc.SetLineWidth(1.5)
	step := float64(traceWidth) / float64(len(trace)-1)
	for i, v := range trace {
		x := float64(i) * step
		y := mid - (v/max)*(mid-10)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	return dc.EncodePNG(w)
}
