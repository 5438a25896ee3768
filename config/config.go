package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is built once at process start and handed to every component that
// needs it. Nothing else in the service reads the environment.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// WebhookSecret may be empty at startup; webhook requests then fail closed.
	WebhookSecret string `envconfig:"SHOPIFY_WEBHOOK_SECRET"`

	ReconcileConcurrency int `envconfig:"RECONCILE_CONCURRENCY" default:"4"`

	DBDriver        string        `envconfig:"DB_DRIVER" default:"mysql"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	MySQLURL        string        `envconfig:"MYSQL_URL"`
	DBUser          string        `envconfig:"DB_USER" default:"root"`
	DBPass          string        `envconfig:"DB_PASS"`
	DBHost          string        `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort          string        `envconfig:"DB_PORT"`
	DBName          string        `envconfig:"DB_NAME" default:"storefront"`
	DBSSLMode       string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBAutoMigrate   bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	DBSlowThreshold time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"1s"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return c, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ReconcileConcurrency < 1 {
		c.ReconcileConcurrency = 1
	}
	c.CORSOrigins = cleanOrigins(c.CORSOrigins)
	return c, nil
}

// AllowAllOrigins reports whether CORS is open to any origin, in which case
// credentials cannot be allowed.
func (c Config) AllowAllOrigins() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func cleanOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, part := range raw {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
