package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validStores = map[string]bool{
	"":         true, // store is optional for the gateway process
	"postgres": true,
	"mongodb":  true,
}

func ValidateStatic(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}

	if !validStores[cfg.Database.Store] {
		return fmt.Errorf("database.store must be postgres or mongodb, got %q", cfg.Database.Store)
	}

	if cfg.Broker.Type != "" && cfg.Broker.Type != "kafka" {
		return fmt.Errorf("unsupported broker.type: %q", cfg.Broker.Type)
	}
	if cfg.Broker.Type == "kafka" && len(cfg.Broker.Kafka.Brokers) == 0 {
		return fmt.Errorf("broker.kafka.brokers is required when broker.type is kafka")
	}

	for i, route := range cfg.Gateway.Routes {
		if err := validateRoute(route); err != nil {
			return fmt.Errorf("gateway.routes[%d]: %w", i, err)
		}
	}

	return nil
}

func validateRoute(route RouteConfig) error {
	if route.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.HasPrefix(route.PathPrefix, "/") {
		return fmt.Errorf("path_prefix must start with /, got %q", route.PathPrefix)
	}

	u, err := url.Parse(route.Upstream)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream must be an absolute URL, got %q", route.Upstream)
	}

	for i, spec := range route.Filters {
		if spec.Name == "" {
			return fmt.Errorf("filters[%d]: name is required", i)
		}
	}

	return nil
}
