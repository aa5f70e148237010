package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver  string        `koanf:"driver"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Migrate bool          `koanf:"migrate"`
}

// String returns a string representation of the database configuration with credentials masked.
func (c *DatabaseConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Database ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  migrate: %t\n", c.Migrate))
	return b.String()
}

func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	switch c.Driver {
	case DriverPostgres:
		if c.URL == "" {
			return fmt.Errorf("database URL is not configured")
		}
		if !isValidPostgresURL(c.URL) {
			return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("database connect timeout is not configured")
		}
	case DriverSqlite:
		if c.URL == "" {
			return fmt.Errorf("sqlite database path is not configured")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

// MaskURL hides the credentials of a connection URL.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	if !strings.Contains(url, "://") {
		// plain file path
		return url
	}
	return "****"
}
