// Package config loads server settings from defaults, an optional YAML file,
// .env files and PORTFOLIO_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/store"
)

var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "PORTFOLIO"

type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Animation struct {
	StartDelay      time.Duration `mapstructure:"start_delay"`
	DrawDuration    time.Duration `mapstructure:"draw_duration"`
	DwellDuration   time.Duration `mapstructure:"dwell_duration"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	RevealThreshold float64       `mapstructure:"reveal_threshold"`
}

// Rules converts the animation settings into sequencer rules.
func (a Animation) Rules() engine.Rules {
	return engine.Rules{
		StartDelay:      a.StartDelay,
		DrawDuration:    a.DrawDuration,
		DwellDuration:   a.DwellDuration,
		RevealThreshold: a.RevealThreshold,
	}
}

type Chat struct {
	URL   string `mapstructure:"url"`
	Key   string `mapstructure:"key"`
	Model string `mapstructure:"model"`
}

type Orbit struct {
	Period time.Duration `mapstructure:"period"`
}

type Visibility struct {
	Margin float64 `mapstructure:"margin"`
}

// Sections bounds the mounted sections a server keeps alive.
type Sections struct {
	// IdleTimeout reaps a section that has had no clients and no commands for this long.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Max         int           `mapstructure:"max"`
}

type Admin struct {
	TokenHash string `mapstructure:"token_hash"`
}

type Config struct {
	Port           int        `mapstructure:"port"`
	Env            string     `mapstructure:"env"`
	Database       Database   `mapstructure:"database"`
	CatalogFile    string     `mapstructure:"catalog_file"`
	Animation      Animation  `mapstructure:"animation"`
	Orbit          Orbit      `mapstructure:"orbit"`
	Visibility     Visibility `mapstructure:"visibility"`
	Sections       Sections   `mapstructure:"sections"`
	Chat           Chat       `mapstructure:"chat"`
	Admin          Admin      `mapstructure:"admin"`
	AllowedOrigins []string   `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	r := engine.DefaultRules()
	v.SetDefault("port", 8080)
	v.SetDefault("env", "production")
	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "portfolio.db")
	v.SetDefault("catalog_file", "")
	v.SetDefault("animation.start_delay", r.StartDelay)
	v.SetDefault("animation.draw_duration", r.DrawDuration)
	v.SetDefault("animation.dwell_duration", r.DwellDuration)
	v.SetDefault("animation.tick_interval", 16*time.Millisecond)
	v.SetDefault("animation.reveal_threshold", r.RevealThreshold)
	v.SetDefault("orbit.period", 40*time.Second)
	v.SetDefault("visibility.margin", -100.0)
	v.SetDefault("sections.idle_timeout", 2*time.Minute)
	v.SetDefault("sections.max", 500)
	v.SetDefault("chat.url", "https://ai.gateway.lovable.dev/v1/chat/completions")
	v.SetDefault("chat.key", "")
	v.SetDefault("chat.model", "google/gemini-2.5-flash")
	v.SetDefault("admin.token_hash", "")
	v.SetDefault("allowed_origins", []string{"*"})
}

// Load builds the config. path may be empty; envFiles that do not exist are
// skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		// Existing environment variables win over .env entries.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// Every key has a default, so AutomaticEnv overrides reach Unmarshal.
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	case c.Database.Driver != store.DriverSQLite && c.Database.Driver != store.DriverPostgres:
		return fmt.Errorf("%w: database.driver %q", ErrInvalidConfig, c.Database.Driver)
	case c.Animation.TickInterval <= 0:
		return fmt.Errorf("%w: animation.tick_interval must be positive", ErrInvalidConfig)
	case c.Orbit.Period < 0:
		return fmt.Errorf("%w: orbit.period must not be negative", ErrInvalidConfig)
	case c.Sections.IdleTimeout < 0:
		return fmt.Errorf("%w: sections.idle_timeout must not be negative", ErrInvalidConfig)
	case c.Sections.Max < 0:
		return fmt.Errorf("%w: sections.max must not be negative", ErrInvalidConfig)
	}
	if err := c.Animation.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Development() bool { return c.Env == "development" }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
