package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Broker         BrokerConfig
	Logging        LoggingConfig
	Auth           AuthConfig
	Gateway        GatewayConfig
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Store    string         `mapstructure:"store"` // "postgres" or "mongodb"
	Postgres PostgresConfig `mapstructure:"postgres"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers    []string      `mapstructure:"brokers"`
	OrderTopic string        `mapstructure:"order_topic"`
	WaitAck    time.Duration `mapstructure:"wait_ack"`
	Retry      RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	Secret         string   `mapstructure:"secret"`
	Issuer         string   `mapstructure:"issuer"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ExemptPrefixes []string `mapstructure:"exempt_prefixes"`
}

type GatewayConfig struct {
	Routes []RouteConfig `mapstructure:"routes"`
}

// RouteConfig is the operator-facing pluggability surface: an ordered list
// of named filters, each with its own free-form config mapping.
type RouteConfig struct {
	Name       string       `mapstructure:"name"`
	PathPrefix string       `mapstructure:"path_prefix"`
	Upstream   string       `mapstructure:"upstream"`
	Filters    []FilterSpec `mapstructure:"filters"`
}

type FilterSpec struct {
	Name   string                 `mapstructure:"name"`
	Config map[string]interface{} `mapstructure:"config"`
}

type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
