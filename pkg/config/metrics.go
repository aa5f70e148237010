package config

import (
	"fmt"
	"strings"
)

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

const defaultMetricsPath = "/metrics"

// String returns a string representation of the metrics configuration.
func (c *MetricsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Metrics ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	return b.String()
}

func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		c.Path = defaultMetricsPath
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %s", c.Path)
	}
	return nil
}
