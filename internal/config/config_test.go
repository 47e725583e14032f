package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vbt_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `# comment
MQTT_BROKER=tcp://localhost:1883
TOPIC_VELOCITY=vbt/velocity
TOPIC_FORCE=vbt/force
TOPIC_DISPLACEMENT=vbt/displacement
ENCODER_CHANNEL_A_PIN=GPIO17
ENCODER_CHANNEL_B_PIN=GPIO27
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD_RATE=115200
WEB_SERVER_PORT=8080
TRACE_HISTORY=500
`

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "vbt/velocity", cfg.TopicVelocity)
	assert.Equal(t, "GPIO17", cfg.EncoderChannelAPin)
	assert.Equal(t, 115200, cfg.SerialBaudRate)
	assert.Equal(t, 8080, cfg.WebServerPort)
	assert.Equal(t, 500, cfg.TraceHistory)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, validConfig+"BOGUS_KEY=1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoadRequiresBroker(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `TOPIC_VELOCITY=vbt/velocity
TOPIC_FORCE=vbt/force
TOPIC_DISPLACEMENT=vbt/displacement
ENCODER_CHANNEL_A_PIN=GPIO17
ENCODER_CHANNEL_B_PIN=GPIO27
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD_RATE=115200
WEB_SERVER_PORT=8080
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT_BROKER is required")
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "MQTT_BROKER tcp://localhost:1883\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config line 1")
}
