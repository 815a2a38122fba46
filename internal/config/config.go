package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "HEDGEFX"
	FileName  = "hedgefx"
)

type Config struct {
	Log        LogConfig
	Simulation SimulationConfig
	Curve      CurveConfig
	Server     ServerConfig
	Export     ExportConfig
}

type LogConfig struct {
	Level       string
	Development bool
}

type SimulationConfig struct {
	Paths        int
	Seed         int64
	Workers      int
	Tolerance    float64
	MinSteps     int `mapstructure:"min_steps"`
	StepsPerYear int `mapstructure:"steps_per_year"`
}

type CurveConfig struct {
	DomesticRate float64 `mapstructure:"domestic_rate"`
	ForeignRate  float64 `mapstructure:"foreign_rate"`
	Maturity     float64
	QuoteDigits  int `mapstructure:"quote_digits"`
	Parallel     bool
}

type ServerConfig struct {
	Addr    string
	AppName string `mapstructure:"app_name"`
}

type ExportConfig struct {
	DuckDB string `mapstructure:"duckdb"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("simulation.paths", 1000)
	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.tolerance", 0.0)
	v.SetDefault("simulation.min_steps", 64)
	v.SetDefault("simulation.steps_per_year", 252)

	v.SetDefault("curve.domestic_rate", 0.0)
	v.SetDefault("curve.foreign_rate", 0.0)
	v.SetDefault("curve.maturity", 1.0)
	v.SetDefault("curve.quote_digits", 5)
	v.SetDefault("curve.parallel", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.app_name", "hedgefx")

	v.SetDefault("export.duckdb", "")
}

// Load reads hedgefx.yaml from the working directory or ./config, or the file
// at path when one is given. A missing default file is not an error; values
// fall back to defaults and HEDGEFX_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch {
	case c.Simulation.Paths <= 0:
		return fmt.Errorf("%w: simulation.paths must be positive, got %d", ErrInvalidConfig, c.Simulation.Paths)
	case c.Simulation.Workers <= 0:
		return fmt.Errorf("%w: simulation.workers must be positive, got %d", ErrInvalidConfig, c.Simulation.Workers)
	case c.Simulation.Tolerance < 0:
		return fmt.Errorf("%w: simulation.tolerance must not be negative, got %v", ErrInvalidConfig, c.Simulation.Tolerance)
	case c.Curve.Maturity <= 0:
		return fmt.Errorf("%w: curve.maturity must be positive, got %v", ErrInvalidConfig, c.Curve.Maturity)
	case c.Curve.QuoteDigits < 0:
		return fmt.Errorf("%w: curve.quote_digits must not be negative, got %d", ErrInvalidConfig, c.Curve.QuoteDigits)
	}
	return nil
}
