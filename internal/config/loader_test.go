package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
  read_timeout_seconds: 10s
  write_timeout_seconds: 30s

logging:
  level: debug
  format: console

circuit_breaker:
  enabled: true
  max_requests: 5
  interval: 30s
  timeout: 15s

broker:
  type: kafka
  kafka:
    brokers:
      - localhost:9092
    order_topic: orders.created
    wait_ack: 3s

gateway:
  routes:
    - name: order-service
      path_prefix: /order-service
      upstream: http://localhost:8081
      filters:
        - name: logging
          config:
            base_message: "hello"
            pre_logger: true
        - name: auth
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(5), cfg.CircuitBreaker.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.CircuitBreaker.Interval)
	assert.Equal(t, 15*time.Second, cfg.CircuitBreaker.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Broker.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Broker.Kafka.WaitAck)

	require.Len(t, cfg.Gateway.Routes, 1)
	route := cfg.Gateway.Routes[0]
	assert.Equal(t, "order-service", route.Name)
	require.Len(t, route.Filters, 2)
	assert.Equal(t, "logging", route.Filters[0].Name)
	assert.Equal(t, "hello", route.Filters[0].Config["base_message"])
	assert.Equal(t, true, route.Filters[0].Config["pre_logger"])
	assert.Equal(t, "auth", route.Filters[1].Name)
	assert.Nil(t, route.Filters[1].Config)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
broker:
  type: rabbitmq
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker.type")
}

func TestLoadConfig_BrokerEnvOverride(t *testing.T) {
	t.Setenv("BROKER_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	path := writeConfigFile(t, `
server:
  port: 8080
broker:
  type: kafka
  kafka:
    brokers:
      - localhost:9092
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Broker.Kafka.Brokers)
}
