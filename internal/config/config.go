// SPDX-License-Identifier: MIT

// Package config loads the ctmc service and CLI configuration.
//
// Sources, later ones winning:
//  1. built-in defaults
//  2. a YAML file (--config, or config.yaml in ., ./configs, $HOME/.ctmc, /etc/ctmc)
//  3. environment variables with the CTMC_ prefix, dots replaced by
//     underscores: CTMC_SERVER_PORT=9090, CTMC_ENGINE_MAX_COMPONENTS=12
//  4. command-line flags bound into the same viper instance
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/ode"
	"github.com/katalvlaran/ctmc/reliability"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CTMC"

// ErrInvalid wraps every validation failure of a loaded Config.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// SolveTimeout bounds a single solve started by a request; 0 disables it.
	SolveTimeout time.Duration `mapstructure:"solve_timeout" validate:"gte=0"`
	Debug        bool          `mapstructure:"debug"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// EngineConfig mirrors reliability.Config in file/env form.
type EngineConfig struct {
	MaxComponents  int         `mapstructure:"max_components" validate:"min=1,max=24"`
	MaxPoints      int         `mapstructure:"max_points" validate:"min=1"`
	MaxGraphStates int         `mapstructure:"max_graph_states" validate:"gte=0"`
	DefaultHorizon float64     `mapstructure:"default_horizon" validate:"gt=0"`
	DefaultPoints  int         `mapstructure:"default_points" validate:"min=1,ltefield=MaxPoints"`
	MassTolerance  float64     `mapstructure:"mass_tolerance" validate:"gt=0"`
	RepairMode     string      `mapstructure:"repair_mode" validate:"omitempty,oneof=mirrored restoring"`
	Solver         ode.Options `mapstructure:"solver"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// TelemetryConfig controls tracing.
type TelemetryConfig struct {
	Tracing     bool    `mapstructure:"tracing"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
	ServiceName string  `mapstructure:"service_name" validate:"required"`
}

// SecurityConfig contains CORS, rate limiting and body size settings.
type SecurityConfig struct {
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit      float64  `mapstructure:"rate_limit" validate:"gte=0"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	BodyLimit      string   `mapstructure:"body_limit"`
}

// Default returns the configuration used when no file or environment is set.
func Default() *Config {
	c, err := LoadWith(viper.New(), "")
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}

	return c
}

// Load reads cfgFile (or searches the standard locations when empty) and
// the environment.
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith is Load on a caller-provided viper instance, so command flags
// bound to v take part in resolution.
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ctmc")
		v.AddConfigPath("/etc/ctmc")
	}

	if err := v.ReadInConfig(); err != nil {
		// only a missing file during discovery is tolerated
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := reliability.DefaultConfig()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.solve_timeout", "30s")
	v.SetDefault("server.debug", false)

	v.SetDefault("engine.max_components", def.MaxComponents)
	v.SetDefault("engine.max_points", def.MaxPoints)
	v.SetDefault("engine.max_graph_states", def.MaxGraphStates)
	v.SetDefault("engine.default_horizon", def.DefaultHorizon)
	v.SetDefault("engine.default_points", def.DefaultPoints)
	v.SetDefault("engine.mass_tolerance", def.MassTolerance)
	v.SetDefault("engine.repair_mode", def.RepairMode.String())
	v.SetDefault("engine.solver.rel_tol", def.Solver.RelTol)
	v.SetDefault("engine.solver.abs_tol", def.Solver.AbsTol)
	v.SetDefault("engine.solver.initial_step", def.Solver.InitialStep)
	v.SetDefault("engine.solver.min_step", def.Solver.MinStep)
	v.SetDefault("engine.solver.max_step", def.Solver.MaxStep)
	v.SetDefault("engine.solver.max_steps", def.Solver.MaxSteps)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telemetry.tracing", false)
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.service_name", "ctmc")

	v.SetDefault("security.rate_limit", 20)
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.body_limit", "1M")
}

var validate = validator.New()

// Validate checks struct tags, then the engine section as a whole.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalid, f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Engine.Reliability(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// Reliability converts the section into an engine Config.
func (e EngineConfig) Reliability() (reliability.Config, error) {
	mode, err := kolmogorov.ParseRepairMode(e.RepairMode)
	if err != nil {
		return reliability.Config{}, err
	}
	rc := reliability.Config{
		MaxComponents:  e.MaxComponents,
		MaxPoints:      e.MaxPoints,
		MaxGraphStates: e.MaxGraphStates,
		DefaultHorizon: e.DefaultHorizon,
		DefaultPoints:  e.DefaultPoints,
		MassTolerance:  e.MassTolerance,
		RepairMode:     mode,
		Solver:         e.Solver,
	}

	return rc, rc.Validate()
}
