package config

import (
	"fmt"
	"strings"
)

type GrpcServerConfig struct {
	Enabled           bool   `koanf:"enabled"`
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflection"`
}

// String returns a string representation of the gRPC server configuration.
func (c *GrpcServerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  port: %s\n", c.Port))
	b.WriteString(fmt.Sprintf("  reflection: %t\n", c.ReflectionEnabled))
	return b.String()
}

func (c *GrpcServerConfig) Validate() error {
	if c.Enabled && c.Port == "" {
		return fmt.Errorf("gRPC port is not configured")
	}
	return nil
}
