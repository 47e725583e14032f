package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Only glue lives here:
// broker address, pins, ports. The signal-path constants (encoder
// resolution, wheel radius, thresholds, sampling period) are compile-time
// and live in the kinematics package.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string

	// Topics
	TopicVelocity     string
	TopicForce        string
	TopicDisplacement string

	// Encoder hardware (GPIO mode)
	EncoderChannelAPin string
	EncoderChannelBPin string

	// Encoder tether (serial mode)
	SerialPort     string
	SerialBaudRate int

	// Web Server
	WebServerPort int
	// TraceHistory is how many recent velocity samples the web app keeps
	// for the rendered trace.
	TraceHistory int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for
//     initialization, read lock for Get().
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_VELOCITY":
		c.TopicVelocity = value
	case "TOPIC_FORCE":
		c.TopicForce = value
	case "TOPIC_DISPLACEMENT":
		c.TopicDisplacement = value

	// Encoder hardware
	case "ENCODER_CHANNEL_A_PIN":
		c.EncoderChannelAPin = value
	case "ENCODER_CHANNEL_B_PIN":
		c.EncoderChannelBPin = value

	// Encoder tether
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "TRACE_HISTORY":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRACE_HISTORY %q: %w", value, err)
		}
		if n < 2 {
			return fmt.Errorf("TRACE_HISTORY must be at least 2, got %d", n)
		}
		c.TraceHistory = n

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicVelocity == "" {
		return fmt.Errorf("TOPIC_VELOCITY is required")
	}
	if c.TopicForce == "" {
		return fmt.Errorf("TOPIC_FORCE is required")
	}
	if c.TopicDisplacement == "" {
		return fmt.Errorf("TOPIC_DISPLACEMENT is required")
	}
	if c.EncoderChannelAPin == "" {
		return fmt.Errorf("ENCODER_CHANNEL_A_PIN is required")
	}
	if c.EncoderChannelBPin == "" {
		return fmt.Errorf("ENCODER_CHANNEL_B_PIN is required")
	}
	if c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if c.SerialBaudRate == 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE is required")
	}
	if c.WebServerPort == 0 {
		return fmt.Errorf("WEB_SERVER_PORT is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
