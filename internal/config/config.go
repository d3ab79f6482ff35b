package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAuthAPIURL          = "http://localhost:8000"
	defaultServerAddr          = ":3000"
	defaultSignupRedirectDelay = 3 * time.Second
	defaultMountTTL            = 15 * time.Minute

	// devSessionSecret is only accepted outside production.
	devSessionSecret = "launchpad-dev-session-secret-change-me"
)

// ErrMissingSessionSecret is returned when APP_ENV=production and SESSION_SECRET is unset.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set in production")

// Provider exposes read access to the application configuration.
// Handlers and services depend on this interface rather than the concrete struct.
type Provider interface {
	GetAuthAPIURL() string
	GetServerAddr() string
	GetSessionSecret() string
	GetSignupRedirectDelay() time.Duration
	GetMountTTL() time.Duration
	IsProduction() bool
}

// Config holds all configuration for the application.
type Config struct {
	AuthAPIURL          string
	ServerAddr          string
	SessionSecret       string
	Env                 string
	SignupRedirectDelay time.Duration
	MountTTL            time.Duration
}

// New loads configuration from a .env file (if present) and environment variables.
func New() (*Config, error) {
	if !LoadDotEnv() {
		// slog is not configured yet at this point.
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function. It is separated from New so tests
// can supply their own environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AuthAPIURL:    AuthAPIURL(getenv),
		ServerAddr:    valueOr(getenv("SERVER_ADDR"), defaultServerAddr),
		SessionSecret: getenv("SESSION_SECRET"),
		Env:           valueOr(getenv("APP_ENV"), "development"),
	}

	var err error
	if cfg.SignupRedirectDelay, err = durationOr(getenv("SIGNUP_REDIRECT_DELAY"), defaultSignupRedirectDelay); err != nil {
		return nil, fmt.Errorf("invalid SIGNUP_REDIRECT_DELAY: %w", err)
	}
	if cfg.MountTTL, err = durationOr(getenv("MOUNT_TTL"), defaultMountTTL); err != nil {
		return nil, fmt.Errorf("invalid MOUNT_TTL: %w", err)
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSessionSecret
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

// AuthAPIURL resolves the remote account service URL on its own, for tools that need nothing
// else from the configuration.
func AuthAPIURL(getenv func(string) string) string {
	return strings.TrimRight(valueOr(getenv("AUTH_API_URL"), defaultAuthAPIURL), "/")
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

func (c *Config) GetAuthAPIURL() string                 { return c.AuthAPIURL }
func (c *Config) GetServerAddr() string                 { return c.ServerAddr }
func (c *Config) GetSessionSecret() string              { return c.SessionSecret }
func (c *Config) GetSignupRedirectDelay() time.Duration { return c.SignupRedirectDelay }
func (c *Config) GetMountTTL() time.Duration            { return c.MountTTL }

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", v)
	}
	return d, nil
}
