package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment normalises v into one of the known environments.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}

type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	OIDC     OIDCConfig
}

type DatabaseConfig struct {
	Driver          string        `default:"sqlite"`
	DSN             string        `envconfig:"DSN" default:"storefront.db"`
	MaxOpenConns    int           `split_words:"true" default:"10"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"5m"`
}

type LoggerConfig struct {
	Level             string `default:"info"`
	Encoding          string `default:"json"`
	DisableCaller     bool   `split_words:"true"`
	DisableStacktrace bool   `split_words:"true" default:"true"`
}

type AuthConfig struct {
	BcryptCost int `split_words:"true" default:"10"`
}

// OIDCConfig enables verification of externally issued ID tokens when both
// fields are set.
type OIDCConfig struct {
	Issuer   string
	ClientID string `envconfig:"CLIENT_ID"`
}

func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

func (c *Config) Environment() Environment {
	return ParseEnvironment(c.AppEnv)
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
