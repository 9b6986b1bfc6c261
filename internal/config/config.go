package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"devportal/internal/links"
)

// Config captures startup settings for the portal entrypoint.
type Config struct {
	HTTPHost string `env:"PORTAL_HTTP_HOST" envDefault:"0.0.0.0" validate:"required"`
	HTTPPort int    `env:"PORTAL_HTTP_PORT" envDefault:"3000" validate:"min=1,max=65535"`

	SSHEnabled     bool          `env:"PORTAL_SSH_ENABLED" envDefault:"true"`
	SSHHost        string        `env:"PORTAL_SSH_HOST"`
	SSHPort        int           `env:"PORTAL_SSH_PORT" envDefault:"2222" validate:"min=1,max=65535"`
	SSHHostKeyPath string        `env:"PORTAL_SSH_HOST_KEY_PATH" envDefault:".data/host_ed25519" validate:"required"`
	SSHIdleTimeout time.Duration `env:"PORTAL_SSH_IDLE_TIMEOUT" envDefault:"120s" validate:"gt=0"`

	RateLimitPerMin int `env:"PORTAL_RATE_LIMIT_PER_MIN" envDefault:"30" validate:"min=1,max=10000"`
	RateLimitBurst  int `env:"PORTAL_RATE_LIMIT_BURST" envDefault:"10" validate:"min=1,max=10000"`

	AppConfigPath string `env:"PORTAL_APP_CONFIG" envDefault:"app-config.yaml" validate:"required"`

	PublicScheme string `env:"PORTAL_PUBLIC_SCHEME" validate:"omitempty,oneof=http https"`
	PublicHost   string `env:"PORTAL_PUBLIC_HOST"`

	LogLevel string `env:"PORTAL_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Title    string `env:"PORTAL_TITLE" envDefault:"Internal Developer Platform" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFromEnv loads runtime configuration from environment variables.
func LoadFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.HTTPHost = strings.TrimSpace(cfg.HTTPHost)
	cfg.SSHHost = strings.TrimSpace(cfg.SSHHost)
	cfg.PublicScheme = strings.ToLower(strings.TrimSpace(cfg.PublicScheme))
	cfg.PublicHost = strings.TrimSpace(cfg.PublicHost)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, describeValidation(err)
	}

	cleanHostKeyPath := filepath.Clean(cfg.SSHHostKeyPath)
	if cleanHostKeyPath == "." {
		return Config{}, fmt.Errorf("PORTAL_SSH_HOST_KEY_PATH must not resolve to current directory")
	}
	cfg.SSHHostKeyPath = cleanHostKeyPath

	if cfg.PublicScheme != "" && cfg.PublicHost == "" {
		return Config{}, fmt.Errorf("PORTAL_PUBLIC_SCHEME requires PORTAL_PUBLIC_HOST")
	}

	return cfg, nil
}

// HTTPAddress is the listen address of the HTTP surface.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// SSHAddress is the listen address of the terminal surface. It binds to
// PORTAL_HTTP_HOST unless PORTAL_SSH_HOST is set.
func (c Config) SSHAddress() string {
	host := c.SSHHost
	if host == "" {
		host = c.HTTPHost
	}
	return fmt.Sprintf("%s:%d", host, c.SSHPort)
}

// PublicRuntimeHost is the host used by surfaces that have no request to derive
// one from. It is the zero host when PORTAL_PUBLIC_HOST is unset.
func (c Config) PublicRuntimeHost() links.RuntimeHost {
	return links.RuntimeHost{Scheme: c.PublicScheme, HostAndPort: c.PublicHost}
}

var envKeys = map[string]string{
	"HTTPHost":        "PORTAL_HTTP_HOST",
	"HTTPPort":        "PORTAL_HTTP_PORT",
	"SSHPort":         "PORTAL_SSH_PORT",
	"SSHHostKeyPath":  "PORTAL_SSH_HOST_KEY_PATH",
	"SSHIdleTimeout":  "PORTAL_SSH_IDLE_TIMEOUT",
	"RateLimitPerMin": "PORTAL_RATE_LIMIT_PER_MIN",
	"RateLimitBurst":  "PORTAL_RATE_LIMIT_BURST",
	"AppConfigPath":   "PORTAL_APP_CONFIG",
	"PublicScheme":    "PORTAL_PUBLIC_SCHEME",
	"LogLevel":        "PORTAL_LOG_LEVEL",
	"Title":           "PORTAL_TITLE",
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key, ok := envKeys[fe.StructField()]
		if !ok {
			key = fe.StructField()
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", key, fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", key, fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
