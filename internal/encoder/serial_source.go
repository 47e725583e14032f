// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package encoder

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialSource consumes encoder transitions streamed by a tethered
// microcontroller over a serial port. The MCU emits one line per channel A
// edge: "<a>,<b>" where each field is 0 or 1, the level of channel A after
// the edge and channel B sampled at that moment.
type SerialSource struct {
	decoder *Decoder
	port    io.ReadCloser
}

// NewSerialSource opens the serial port in the 8N1 framing the tether
// firmware uses.
func NewSerialSource(decoder *Decoder, portName string, baudRate uint) (*SerialSource, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("encoder: open serial port %s: %w", portName, err)
	}
	log.Printf("encoder: serial edge stream opened on %s at %d baud", portName, baudRate)

	return &SerialSource{decoder: decoder, port: port}, nil
}

// Run reads edge lines until the port errors out. Malformed lines are
// electrical noise on the wire and are skipped without comment, the same
// way the decoder absorbs contact bounce.
func (s *SerialSource) Run() error {
	defer s.port.Close()

	reader := bufio.NewReader(s.port)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("encoder: serial read: %w", err)
		}

		a, b, ok := ParseEdgeLine(line)
		if !ok {
			continue
		}
		s.decoder.HandleEdge(a, b)
	}
}

// ParseEdgeLine decodes one "<a>,<b>" line into channel levels. ok is
// false for anything that is not exactly two 0/1 fields.
func ParseEdgeLine(line string) (a, b Level, ok bool) {
	line = strings.TrimSpace(line)
	fields := strings.SplitN(line, ",", 2)
	if len(fields) != 2 {
		return Low, Low, false
	}

	a, ok = parseLevel(strings.TrimSpace(fields[0]))
	if !ok {
		return Low, Low, false
	}
	b, ok = parseLevel(strings.TrimSpace(fields[1]))
	if !ok {
		return Low, Low, false
	}
	return a, b, true
}

func parseLevel(s string) (Level, bool) {
	switch s {
	case "0":
		return Low, true
	case "1":
		return High, true
	default:
		return Low, false
	}
}
