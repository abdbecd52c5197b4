package lifecycle

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the host-tunable registry settings.
type Config struct {
	Debug     bool   `env:"LIFECYCLE_DEBUG" envDefault:"false"`
	Namespace string `env:"LIFECYCLE_NAMESPACE" envDefault:"lifecycleproxy"`
	Prefix    string `env:"LIFECYCLE_PREFIX" envDefault:"Lifecycle"`
	Suffix    string `env:"LIFECYCLE_SUFFIX" envDefault:"Proxy"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("lifecycle: parse environment: %w", err)
	}
	if err := cfg.Naming().Validate(); err != nil {
		return Config{}, fmt.Errorf("lifecycle: %w", err)
	}
	return cfg, nil
}

// Naming returns the adapter naming described by the config.
func (c Config) Naming() Naming {
	return Naming{
		Namespace: c.Namespace,
		Prefix:    c.Prefix,
		Suffix:    c.Suffix,
	}
}
