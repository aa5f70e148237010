package config

import (
	"fmt"
	"strings"
	"time"
)

// CORSConfig controls cross-origin access to the REST API.
type CORSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	AllowedOrigins []string      `koanf:"allowedOrigins"`
	MaxAge         time.Duration `koanf:"maxAge"`
}

const defaultCORSMaxAge = 30 * time.Minute

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  cors.enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  cors.allowedOrigins: %s\n", strings.Join(c.AllowedOrigins, ",")))
	b.WriteString(fmt.Sprintf("  cors.maxAge: %v\n", c.MaxAge))
	return b.String()
}

// Validate fills in defaults for an enabled block: every origin and a 30 minute preflight cache.
func (c *CORSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	for _, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS allowed origin must not be blank")
		}
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaultCORSMaxAge
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("invalid CORS max age: %v", c.MaxAge)
	}
	return nil
}
