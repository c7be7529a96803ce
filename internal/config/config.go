// Package config resolves the tunable constants of a red-desaturate run from
// defaults, an optional YAML file, RED_DESATURATE_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/ironsheep/red-desaturate/internal/imaging"
	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

// Keys under which settings are stored in viper. They double as YAML keys
// and, upper-cased with the env prefix, as environment variable names.
const (
	KeyColor      = "color"
	KeyRedMin     = "red_min"
	KeyGreenMax   = "green_max"
	KeyBlueMax    = "blue_max"
	KeyDefaultDPI = "default_dpi"
	KeyOptimize   = "optimize"
	KeyLogLevel   = "log_level"
)

// EnvPrefix is prepended to upper-cased keys, e.g. RED_DESATURATE_RED_MIN.
const EnvPrefix = "RED_DESATURATE"

// FileName is the config file base name searched for in the working
// directory and in ~/.config/red-desaturate.
const FileName = "red-desaturate"

// Config holds the effective settings for a run.
type Config struct {
	// Color is the replacement color as "#RRGGBB".
	Color string `yaml:"color" mapstructure:"color"`

	// RedMin, GreenMax and BlueMax are the strict detection bounds.
	RedMin   int `yaml:"red_min" mapstructure:"red_min"`
	GreenMax int `yaml:"green_max" mapstructure:"green_max"`
	BlueMax  int `yaml:"blue_max" mapstructure:"blue_max"`

	// DefaultDPI is written when the input declares no resolution.
	DefaultDPI float64 `yaml:"default_dpi" mapstructure:"default_dpi"`

	// Optimize selects maximum PNG compression.
	Optimize bool `yaml:"optimize" mapstructure:"optimize"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	d := pipeline.DefaultOptions()
	return &Config{
		Color:      d.Replacement.Hex(),
		RedMin:     int(d.Threshold.RedMin),
		GreenMax:   int(d.Threshold.GreenMax),
		BlueMax:    int(d.Threshold.BlueMax),
		DefaultDPI: d.DefaultDPI,
		Optimize:   d.Optimize,
		LogLevel:   "info",
	}
}

// SetDefaults registers the built-in values with v so that files, env vars
// and flags only need to override what they change.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyColor, d.Color)
	v.SetDefault(KeyRedMin, d.RedMin)
	v.SetDefault(KeyGreenMax, d.GreenMax)
	v.SetDefault(KeyBlueMax, d.BlueMax)
	v.SetDefault(KeyDefaultDPI, d.DefaultDPI)
	v.SetDefault(KeyOptimize, d.Optimize)
	v.SetDefault(KeyLogLevel, d.LogLevel)
}

// NewViper returns a viper instance with defaults and environment binding
// configured. If cfgFile is non-empty it is used as the config file;
// otherwise red-desaturate.yaml is searched for in "." and
// ~/.config/red-desaturate.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the configured file into v. A missing file found by search
// is not an error; an explicitly named file that cannot be read is.
// It returns the path used, or "" when no file was read.
func ReadFile(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes the settings held by v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	if _, err := imaging.ParseColor(c.Color); err != nil {
		return fmt.Errorf("%s: %w", KeyColor, err)
	}
	for _, b := range []struct {
		key string
		val int
	}{
		{KeyRedMin, c.RedMin},
		{KeyGreenMax, c.GreenMax},
		{KeyBlueMax, c.BlueMax},
	} {
		if b.val < 0 || b.val > 255 {
			return fmt.Errorf("%s: %d outside 0-255", b.key, b.val)
		}
	}
	if c.DefaultDPI <= 0 {
		return fmt.Errorf("%s: must be positive, got %g", KeyDefaultDPI, c.DefaultDPI)
	}
	switch c.LogLevel {
	case "", "info", "debug":
	default:
		return fmt.Errorf("%s: unknown level %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}

// Options converts the config to pipeline options.
func (c *Config) Options() (pipeline.Options, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	replacement, err := imaging.ParseColor(c.Color)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Threshold: imaging.Threshold{
			RedMin:   uint8(c.RedMin),
			GreenMax: uint8(c.GreenMax),
			BlueMax:  uint8(c.BlueMax),
		},
		Replacement: replacement,
		DefaultDPI:  c.DefaultDPI,
		Optimize:    c.Optimize,
	}, nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Marshal renders the config as YAML in the same shape ReadFile accepts.
func Marshal(c *Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
