package config

import (
	"fmt"
	"strings"
	"time"
)

type PProfConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"readHeaderTimeout"`
}

const defaultPProfReadHeaderTimeout = 5 * time.Second

// String returns a string representation of the pprof configuration.
func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  address: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  readHeaderTimeout: %s\n", c.ReadHeaderTimeout))
	return b.String()
}

// Validate requires an address when pprof is enabled. The server must not be public,
// so a bare ":port" binding is rejected in favour of an explicit host.
func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	if strings.HasPrefix(c.Addr, ":") {
		return fmt.Errorf("pprof address must name a host, e.g. localhost%s", c.Addr)
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = defaultPProfReadHeaderTimeout
	}
	return nil
}
