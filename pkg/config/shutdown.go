package config

import (
	"fmt"
	"strings"
	"time"
)

// ShutdownConfig bounds how long each server may take to drain on shutdown.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

const (
	defaultShutdownTimeout = 10 * time.Second
	maxShutdownTimeout     = 5 * time.Minute
)

// String returns a string representation of the ShutdownConfig.
func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout == 0 {
		c.Timeout = defaultShutdownTimeout
	}
	if c.Timeout < 0 || c.Timeout > maxShutdownTimeout {
		return fmt.Errorf("shutdown timeout must be within (0, %s]: %s", maxShutdownTimeout, c.Timeout)
	}
	return nil
}
