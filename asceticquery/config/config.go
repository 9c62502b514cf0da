package config

import (
	"net"
	"net/url"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultSlowThreshold = 100 * time.Millisecond

// Config describes the database a query factory talks to. Values come from
// an optional YAML file and are overridden by DB_* environment variables.
type Config struct {
	Driver        string        `yaml:"driver"`
	DSNOverride   string        `yaml:"dsn,omitempty"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	Database      string        `yaml:"database"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

func Default() Config {
	return Config{
		Driver:        "pgx",
		Username:      "devel",
		Password:      "devel",
		Host:          "localhost",
		Port:          "5432",
		Database:      "devel",
		SlowThreshold: DefaultSlowThreshold,
	}
}

// Load reads the YAML file at path, when given, on top of the defaults and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "unable to read config %q", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "unable to parse config %q", path)
		}
	}
	return cfg, cfg.applyEnv()
}

func (c *Config) applyEnv() error {
	c.Driver = getEnv("DB_DRIVER", c.Driver)
	c.DSNOverride = getEnv("DB_DSN", c.DSNOverride)
	c.Username = getEnv("DB_USERNAME", c.Username)
	c.Password = getEnv("DB_PASSWORD", c.Password)
	c.Host = getEnv("DB_HOST", c.Host)
	c.Port = getEnv("DB_PORT", c.Port)
	c.Database = getEnv("DB_DATABASE", c.Database)
	if value, ok := os.LookupEnv("QUERY_SLOW_THRESHOLD"); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrap(err, "invalid QUERY_SLOW_THRESHOLD")
		}
		c.SlowThreshold = d
	}
	return nil
}

// DSN returns the explicit DSN when one is configured, otherwise it is
// assembled for the driver.
func (c Config) DSN() string {
	if c.DSNOverride != "" {
		return c.DSNOverride
	}
	switch c.Driver {
	case "mysql":
		m := mysql.NewConfig()
		m.User = c.Username
		m.Passwd = c.Password
		m.Net = "tcp"
		m.Addr = net.JoinHostPort(c.Host, c.Port)
		m.DBName = c.Database
		m.ParseTime = true
		return m.FormatDSN()
	case "sqlite", "sqlite3":
		return c.Database
	default:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.Username, c.Password),
			Host:   net.JoinHostPort(c.Host, c.Port),
			Path:   "/" + c.Database,
		}
		return u.String()
	}
}

func (c Config) YAML() ([]byte, error) {
	redacted := c
	if redacted.Password != "" {
		redacted.Password = "******"
	}
	return yaml.Marshal(redacted)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
