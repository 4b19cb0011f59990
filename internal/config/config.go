package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

const defaultBaseURL = "http://localhost:8080"

type rawConfig struct {
	Environment       string        `env:"CLUBADMIN_ENVIRONMENT,required"`
	BaseURL           string        `env:"CLUBADMIN_BASE_URL"`
	AccessToken       string        `env:"CLUBADMIN_ACCESS_TOKEN"`
	RefreshToken      string        `env:"CLUBADMIN_REFRESH_TOKEN"`
	SentryDSN         string        `env:"SENTRY_DSN"`
	RequestsPerSecond float64       `env:"CLUBADMIN_REQUESTS_PER_SECOND" envDefault:"5"`
	RequestBurst      int           `env:"CLUBADMIN_REQUEST_BURST"       envDefault:"10"`
	HTTPTimeout       time.Duration `env:"CLUBADMIN_HTTP_TIMEOUT"        envDefault:"15s"`
	OTelEnabled       bool          `env:"CLUBADMIN_OTEL_ENABLED"        envDefault:"false"`
}

type Config struct {
	env               environment
	baseURL           string
	accessToken       string
	refreshToken      string
	sentryDSN         string
	requestsPerSecond float64
	requestBurst      int
	httpTimeout       time.Duration
	otelEnabled       bool
}

func (c *Config) BaseURL() string {
	return c.baseURL
}

// AccessToken is a pre-issued session token, used instead of logging in.
func (c *Config) AccessToken() string {
	return c.accessToken
}

func (c *Config) RefreshToken() string {
	return c.refreshToken
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) RequestsPerSecond() float64 {
	return c.requestsPerSecond
}

func (c *Config) RequestBurst() int {
	return c.requestBurst
}

func (c *Config) HTTPTimeout() time.Duration {
	return c.httpTimeout
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

func (c *Config) Environment() string {
	return string(c.env)
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, baseURL: %s, hasAccessToken: %t, rps: %g, burst: %d, timeout: %s, otel: %t, ...}",
		string(c.env),
		c.baseURL,
		c.accessToken != "",
		c.requestsPerSecond,
		c.requestBurst,
		c.httpTimeout,
		c.otelEnabled,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		var notSet env.VarIsNotSetError
		if errors.As(err, &notSet) {
			return missingKey(notSet.Key)
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	var env environment
	switch raw.Environment {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: CLUBADMIN_ENVIRONMENT (%s)", ErrInvalidValue, raw.Environment)
	}

	if env == production || env == staging {
		if raw.BaseURL == "" {
			return missingKey("CLUBADMIN_BASE_URL")
		}
		if raw.SentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}
	if raw.BaseURL == "" {
		raw.BaseURL = defaultBaseURL
	}

	parsed, err := url.Parse(raw.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("%w: CLUBADMIN_BASE_URL (%s)", ErrInvalidValue, raw.BaseURL)
	}
	if raw.RequestsPerSecond <= 0 {
		return Config{}, fmt.Errorf("%w: CLUBADMIN_REQUESTS_PER_SECOND (%g)", ErrInvalidValue, raw.RequestsPerSecond)
	}
	if raw.RequestBurst <= 0 {
		return Config{}, fmt.Errorf("%w: CLUBADMIN_REQUEST_BURST (%d)", ErrInvalidValue, raw.RequestBurst)
	}
	if raw.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: CLUBADMIN_HTTP_TIMEOUT (%s)", ErrInvalidValue, raw.HTTPTimeout)
	}

	return Config{
		env:               env,
		baseURL:           raw.BaseURL,
		accessToken:       raw.AccessToken,
		refreshToken:      raw.RefreshToken,
		sentryDSN:         raw.SentryDSN,
		requestsPerSecond: raw.RequestsPerSecond,
		requestBurst:      raw.RequestBurst,
		httpTimeout:       raw.HTTPTimeout,
		otelEnabled:       raw.OTelEnabled,
	}, nil
}
