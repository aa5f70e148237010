// Package config defines the catalog service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Metrics    config.MetricsConfig    `koanf:"metrics"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []struct {
		section string
		v       configloader.Validator
	}{
		{"server", &c.HTTPServer},
		{"database", &c.Database},
		{"log", &c.Log},
		{"pprof", &c.PProf},
		{"grpc", &c.GRPC},
		{"nats", &c.Nats},
		{"metrics", &c.Metrics},
		{"shutdown", &c.Shutdown},
	}
	for _, item := range validators {
		if err := item.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", item.section, err)
		}
	}
	return nil
}
