package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
)

// OTELConfig holds OpenTelemetry settings from the standard environment
// variables.
type OTELConfig struct {
	ServiceName        string `env:"OTEL_SERVICE_NAME" envDefault:"ptree"`
	ResourceAttributes string `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:""`
	ExporterEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	TracesEndpoint     string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" envDefault:""`
}

// ParseOTELConfig reads OpenTelemetry settings from the environment.
func ParseOTELConfig() (*OTELConfig, error) {
	var cfg OTELConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing OTEL config from environment: %w", err)
	}
	return &cfg, nil
}

// Enabled reports whether any exporter endpoint is configured. Without
// one, tracing stays off entirely.
func (c *OTELConfig) Enabled() bool {
	return c.ExporterEndpoint != "" || c.TracesEndpoint != ""
}

// Endpoint returns the endpoint to export traces to, preferring the
// traces-specific variable over the generic one.
func (c *OTELConfig) Endpoint() string {
	if c.TracesEndpoint != "" {
		return c.TracesEndpoint
	}
	return c.ExporterEndpoint
}

// ParseResourceAttributes parses OTEL_RESOURCE_ATTRIBUTES, a
// comma-separated list of key=value pairs. Malformed pairs are dropped.
func (c *OTELConfig) ParseResourceAttributes() []attribute.KeyValue {
	if c.ResourceAttributes == "" {
		return nil
	}

	var attrs []attribute.KeyValue
	for _, pair := range strings.Split(c.ResourceAttributes, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		if key != "" {
			attrs = append(attrs, attribute.String(key, strings.TrimSpace(kv[1])))
		}
	}
	return attrs
}
