package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "INVENTRACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	State StateConfig
	Auth  AuthConfig
	Stub  StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INVENTRACK_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"INVENTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INVENTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig locates the inventory backend the client talks to.
type APIConfig struct {
	BaseURL string        `envconfig:"INVENTRACK_API_URL" default:"http://localhost:3030"`
	Timeout time.Duration `envconfig:"INVENTRACK_API_TIMEOUT" default:"30s"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http(s), got %q", a.BaseURL)
	}
	return nil
}

// StateConfig locates the durable client-side state (session token and
// profile survive restarts there).
type StateConfig struct {
	Path string `envconfig:"INVENTRACK_STATE_PATH" default:"inventrack.db"`
}

// AuthConfig carries the credentials the dashboard binary signs in with.
type AuthConfig struct {
	Email    string `envconfig:"INVENTRACK_EMAIL"`
	Password string `envconfig:"INVENTRACK_PASSWORD"`
}

// StubConfig configures the in-memory development backend.
type StubConfig struct {
	Port string `envconfig:"INVENTRACK_STUB_PORT" default:"3030"`
}
