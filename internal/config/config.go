package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Weather WeatherConfig `mapstructure:"weather"`
	Tape    TapeConfig    `mapstructure:"tape"`
	Log     LogConfig     `mapstructure:"log"`
	Keys    []KeyOverride `mapstructure:"keys"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone    string `mapstructure:"timezone"`
	ShowClock   bool   `mapstructure:"show_clock"`
	ShowWeather bool   `mapstructure:"show_weather"`
	ShowTape    bool   `mapstructure:"show_tape"`
}

// WeatherConfig is the static content of the weather card.
type WeatherConfig struct {
	Location  string  `mapstructure:"location"`
	Condition string  `mapstructure:"condition"`
	TempC     float64 `mapstructure:"temp_c"`
	HighC     float64 `mapstructure:"high_c"`
	LowC      float64 `mapstructure:"low_c"`
}

// TapeConfig controls the session calculation tape.
type TapeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Limit   int    `mapstructure:"limit"`
	DSN     string `mapstructure:"dsn"`
}

// LogConfig holds logging settings. An empty path discards logs.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// KeyOverride rebinds one action within a key scope.
type KeyOverride struct {
	Scope  string   `mapstructure:"scope"`
	Action string   `mapstructure:"action"`
	Keys   []string `mapstructure:"keys"`
}

const (
	envPrefix = "JASKCALC"
	envConfig = "JASKCALC_CONFIG"

	// MemoryTapeDSN keeps the tape in process memory for the session only.
	MemoryTapeDSN = "file:jaskcalc-tape?mode=memory&cache=shared"
)

func newViper() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.show_clock", true)
	v.SetDefault("ui.show_weather", true)
	v.SetDefault("ui.show_tape", true)
	v.SetDefault("weather.location", "Melbourne")
	v.SetDefault("weather.condition", "Partly cloudy")
	v.SetDefault("weather.temp_c", 18.0)
	v.SetDefault("weather.high_c", 21.0)
	v.SetDefault("weather.low_c", 11.0)
	v.SetDefault("tape.enabled", true)
	v.SetDefault("tape.limit", 8)
	v.SetDefault("tape.dsn", MemoryTapeDSN)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// DefaultPath is $JASKCALC_CONFIG or $HOME/.config/jaskcalc/config.toml.
func DefaultPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "jaskcalc", "config.toml")
}

// Load reads configuration from the default path and env. Env var overrides
// use prefix JASKCALC_. A missing file is not an error.
func Load() (Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads configuration from path and env.
func LoadFile(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the UI cannot render.
func (c Config) Validate() error {
	if c.Tape.Limit < 0 {
		return fmt.Errorf("config: tape.limit must be >= 0, got %d", c.Tape.Limit)
	}
	if c.Tape.Enabled && strings.TrimSpace(c.Tape.DSN) == "" {
		return fmt.Errorf("config: tape.dsn is required when the tape is enabled")
	}
	return nil
}

func isNotFound(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}

// Save writes the provided config to path, creating the directory if needed.
// It is used by the palette to persist display toggles.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.show_clock", cfg.UI.ShowClock)
	v.Set("ui.show_weather", cfg.UI.ShowWeather)
	v.Set("ui.show_tape", cfg.UI.ShowTape)
	v.Set("weather.location", cfg.Weather.Location)
	v.Set("weather.condition", cfg.Weather.Condition)
	v.Set("weather.temp_c", cfg.Weather.TempC)
	v.Set("weather.high_c", cfg.Weather.HighC)
	v.Set("weather.low_c", cfg.Weather.LowC)
	v.Set("tape.enabled", cfg.Tape.Enabled)
	v.Set("tape.limit", cfg.Tape.Limit)
	v.Set("tape.dsn", cfg.Tape.DSN)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	if len(cfg.Keys) > 0 {
		keys := make([]map[string]any, 0, len(cfg.Keys))
		for _, k := range cfg.Keys {
			keys = append(keys, map[string]any{"scope": k.Scope, "action": k.Action, "keys": k.Keys})
		}
		v.Set("keys", keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
