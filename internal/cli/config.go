package cli

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/pkg/lifecycle"
)

const (
	// DefaultOutDir is where adapters are written when --out is not given
	DefaultOutDir = "./internal/lifecycleproxy"
	// ConfigFileName is the base name of the optional project config file
	ConfigFileName = ".lifecyclegen"
	// EnvPrefix prefixes every environment variable lifecyclegen reads
	EnvPrefix = "LIFECYCLEGEN"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for marked Go files
	Directories []string `mapstructure:"dirs"`

	// ModuleName is the custom module path for imports.
	// If empty, it is read from the nearest go.mod file
	ModuleName string `mapstructure:"module"`

	// OutDir is the directory of the generated namespace package
	OutDir string `mapstructure:"out"`

	Namespace string `mapstructure:"namespace"`
	Prefix    string `mapstructure:"prefix"`
	Suffix    string `mapstructure:"suffix"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `mapstructure:"verbose"`

	// Quiet only shows errors
	Quiet bool `mapstructure:"quiet"`

	// Clean removes generated files instead of generating them
	Clean bool `mapstructure:"clean"`
}

// Naming returns the adapter naming the config describes
func (c Config) Naming() lifecycle.Naming {
	return lifecycle.Naming{
		Namespace: c.Namespace,
		Prefix:    c.Prefix,
		Suffix:    c.Suffix,
	}
}

// Validate checks the config before any file is touched
func (c Config) Validate() error {
	if len(c.Directories) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "at least one directory path is required").
			WithSuggestions("Pass ./... to scan the whole module")
	}
	if c.OutDir == "" {
		return errors.New(errors.ConfigurationErrorCode, "output directory cannot be empty")
	}
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "--verbose and --quiet cannot be combined")
	}
	if err := c.Naming().Validate(); err != nil {
		return errors.WrapConfigurationError("naming", "validate", err)
	}
	return nil
}

// NewViper creates a viper instance with defaults, environment binding and the
// config file location set up. An explicit configPath must exist; the default
// .lifecyclegen.yaml in the working directory is optional.
func NewViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetDefault("dirs", []string{"./..."})
	v.SetDefault("out", DefaultOutDir)
	v.SetDefault("namespace", lifecycle.ProxyNamespace)
	v.SetDefault("prefix", lifecycle.ProxyPrefix)
	v.SetDefault("suffix", lifecycle.ProxySuffix)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("clean", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
	}

	return v
}

// LoadConfig reads the config file if any and resolves the final configuration.
// Positional arguments replace the configured directories.
func LoadConfig(v *viper.Viper, configPath string, args []string) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, errors.WrapConfigurationError("file", "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapConfigurationError("file", "decode", err)
	}

	if len(args) > 0 {
		cfg.Directories = args
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
