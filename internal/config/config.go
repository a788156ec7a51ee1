// Package config reads the bot settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Slack      SlackConfig
	Scheduler  SchedulerConfig
	Log        LogConfig
	HRSlackIDs []string
	TopN       int
}

type ServerConfig struct {
	Port    int
	Version string
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

type DatabaseConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from
// the POSTGRES_* parts.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" || c.Driver != DriverPostgres {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type SlackConfig struct {
	BotToken      string
	SigningSecret string
}

type SchedulerConfig struct {
	Enabled      bool
	PollInterval time.Duration
	Timezone     string
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads envFiles (missing files are ignored) and then the process
// environment. Environment variables win over file values.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetInt("PORT"),
			Version: v.GetString("APP_VERSION"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Name:     v.GetString("POSTGRES_DB"),
		},
		Slack: SlackConfig{
			BotToken:      v.GetString("SLACK_BOT_TOKEN"),
			SigningSecret: v.GetString("SLACK_SIGNING_SECRET"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      v.GetBool("ENABLE_SCHEDULER"),
			PollInterval: v.GetDuration("SCHEDULER_POLL_INTERVAL"),
			Timezone:     v.GetString("SCHEDULER_TIMEZONE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		HRSlackIDs: splitList(v.GetString("HR_SLACK_IDS")),
		TopN:       v.GetInt("TOP_N"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("ENABLE_SCHEDULER", false)
	v.SetDefault("SCHEDULER_POLL_INTERVAL", time.Minute)
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TOP_N", 5)
}

// Validate reports every missing or malformed setting needed to serve
// requests.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" && (c.Database.User == "" || c.Database.Name == "") {
			errs = append(errs, errors.New("DATABASE_URL or POSTGRES_USER and POSTGRES_DB are required"))
		}
	case DriverSQLite:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}
	if c.Slack.BotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.Slack.SigningSecret == "" {
		errs = append(errs, errors.New("SLACK_SIGNING_SECRET is required"))
	}
	if c.Scheduler.PollInterval <= 0 {
		errs = append(errs, errors.New("SCHEDULER_POLL_INTERVAL must be positive"))
	}
	if _, err := c.Scheduler.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid SCHEDULER_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
