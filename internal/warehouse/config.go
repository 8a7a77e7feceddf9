// Package warehouse talks to the analytical warehouse: connection
// configuration, the telemetry query registry, and paged result fetching.
package warehouse

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort             = 5439
	defaultSSLMode          = "require"
	defaultConnectTimeout   = 60 * time.Second
	defaultStatementTimeout = 120 * time.Second
)

type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// Optional with defaults. StatementTimeout is enforced warehouse-side
	// via the session options, not by the application.
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Database == "" {
		return errors.New("database is required")
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.SSLMode == "" {
		c.SSLMode = defaultSSLMode
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.ConnectTimeout < 0 {
		return errors.New("connect timeout must be >= 0")
	}
	if c.StatementTimeout == 0 {
		c.StatementTimeout = defaultStatementTimeout
	}
	if c.StatementTimeout < 0 {
		return errors.New("statement timeout must be >= 0")
	}
	return nil
}

// ConfigFromEnv reads the warehouse settings from TELESENSE_DB_* environment
// variables, leaving zero values for Validate to default.
func ConfigFromEnv() Config {
	cfg := Config{
		Host:     os.Getenv("TELESENSE_DB_HOST"),
		Database: os.Getenv("TELESENSE_DB_NAME"),
		User:     os.Getenv("TELESENSE_DB_USER"),
		Password: os.Getenv("TELESENSE_DB_PASSWORD"),
		SSLMode:  os.Getenv("TELESENSE_DB_SSLMODE"),
	}
	if port := os.Getenv("TELESENSE_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	return cfg
}

// DSN builds the lib/pq connection string. The statement timeout rides along
// as a session option so the warehouse aborts runaway queries itself.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout/time.Second)))
	q.Set("options", fmt.Sprintf("-c statement_timeout=%d", c.StatementTimeout/time.Millisecond))
	u.RawQuery = q.Encode()
	return u.String()
}
