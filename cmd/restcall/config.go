package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/rester/internal/validate"
)

const envPrefix = "RESTCALL"

// config is everything restcall reads from flags, the environment and an
// optional config file, in that order of precedence.
type config struct {
	BaseURL         string            `mapstructure:"base_url" validate:"omitempty,url"`
	Mode            string            `mapstructure:"mode" validate:"required,oneof=blocking callback stream"`
	UserAgent       string            `mapstructure:"user_agent"`
	Origin          string            `mapstructure:"origin"`
	Category        string            `mapstructure:"category" validate:"required"`
	LogLevel        string            `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ResponseTimeout time.Duration     `mapstructure:"response_timeout" validate:"gte=0"`
	ResourceTimeout time.Duration     `mapstructure:"resource_timeout" validate:"gte=0"`
	MaxInFlight     int               `mapstructure:"max_in_flight" validate:"gte=0"`
	RPS             int               `mapstructure:"rps" validate:"gte=0"`
	Burst           int               `mapstructure:"burst" validate:"gte=0"`
	Headers         map[string]string `mapstructure:"headers"`
}

var defaults = map[string]any{
	"base_url":         "",
	"mode":             "blocking",
	"user_agent":       "restcall/1.0",
	"origin":           "",
	"category":         "restcall",
	"log_level":        "warn",
	"response_timeout": 10 * time.Second,
	"resource_timeout": 60 * time.Second,
	"max_in_flight":    0,
	"rps":              0,
	"burst":            0,
}

// loadConfig layers defaults, an optional config file, an optional .env
// file and RESTCALL_* variables into v and decodes the result.
func loadConfig(v *viper.Viper, configFile, envFile string) (config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return config{}, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				return config{}, fmt.Errorf("config file %s not found", configFile)
			}
			return config{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.RPS > 0 && cfg.Burst == 0 {
		cfg.Burst = cfg.RPS
	}

	if err := validate.Check(cfg); err != nil {
		return config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c config) level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
