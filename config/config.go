// Package config loads runtime settings: code defaults, optional
// config file, BLOCKFALL_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Effects EffectsConfig `mapstructure:"effects"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Debug   bool          `mapstructure:"debug"`
}

// GameConfig tunes the shell
type GameConfig struct {
	TickRate int   `mapstructure:"tick_rate"`
	Seed     int64 `mapstructure:"seed"` // 0 = time-derived
}

// EffectsConfig tunes the power-up engine
type EffectsConfig struct {
	MaxActive       int           `mapstructure:"max_active"`
	StackingAllowed bool          `mapstructure:"stacking_allowed"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	CallBudget      time.Duration `mapstructure:"call_budget"`
}

// AudioConfig tunes sound output
type AudioConfig struct {
	Muted bool `mapstructure:"muted"`
}

// Load reads configuration. path may be empty, in which case only
// defaults and environment apply; a named but missing file is an
// error, so a typoed -config flag fails loudly.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("game.tick_rate", 60)
	v.SetDefault("game.seed", 0)
	v.SetDefault("effects.max_active", 8)
	v.SetDefault("effects.stacking_allowed", true)
	v.SetDefault("effects.sweep_interval", time.Second)
	v.SetDefault("effects.call_budget", 2*time.Millisecond)
	v.SetDefault("audio.muted", false)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("BLOCKFALL")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.TickRate < 1 || c.Game.TickRate > 240 {
		return errors.New("game.tick_rate must be in [1, 240]")
	}
	if c.Effects.MaxActive < 1 {
		return errors.New("effects.max_active must be positive")
	}
	if c.Effects.SweepInterval <= 0 {
		return errors.New("effects.sweep_interval must be positive")
	}
	return nil
}
