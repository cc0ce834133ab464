package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	apperrors "hostmon/errors"
)

const (
	AppName   = "hostmon"
	EnvPrefix = "HOSTMON"
)

// Config holds sampling cadence and reporter settings
type Config struct {
	CPU       CPUConfig     `mapstructure:"cpu"`
	Memory    MemoryConfig  `mapstructure:"memory"`
	Processes ProcessConfig `mapstructure:"processes"`
	Report    ReportConfig  `mapstructure:"report"`
}

type CPUConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Window   time.Duration `mapstructure:"window"`
	Combined bool          `mapstructure:"combined"`
}

type MemoryConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ProcessConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Limit    int           `mapstructure:"limit"`
}

type ReportConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	Interval time.Duration `mapstructure:"interval"`
}

var Defaults = map[string]any{
	"cpu.interval":       "1.5s",
	"cpu.window":         "100ms",
	"cpu.combined":       false,
	"memory.interval":    "1.5s",
	"processes.interval": "2s",
	"processes.limit":    30,
	"report.url":         "",
	"report.api_key":     "",
	"report.interval":    "5s",
}

// Load reads an optional .env, an optional config file and HOSTMON_*
// environment variables, in increasing priority. An empty path searches
// the working directory and ~/.hostmon for hostmon.{yaml,json,toml}.
func Load(path string) (*Config, error) {
	// .env is optional, plain environment works too
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug().Err(err).Msg("skipping .env")
	}

	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + string(os.PathSeparator) + "." + AppName)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, apperrors.Config("read config failed", err)
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, apperrors.Config("decode config failed", err)
	}
	conf.normalize()

	log.Debug().Str("file", v.ConfigFileUsed()).Interface("config", conf.redacted()).Msg("config loaded")
	return conf, nil
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	fix := func(name string, d *time.Duration, def time.Duration) {
		if *d <= 0 {
			log.Warn().Str("key", name).Dur("value", *d).Msg("invalid duration, using default")
			*d = def
		}
	}
	fix("cpu.interval", &c.CPU.Interval, 1500*time.Millisecond)
	fix("cpu.window", &c.CPU.Window, 100*time.Millisecond)
	fix("memory.interval", &c.Memory.Interval, 1500*time.Millisecond)
	fix("processes.interval", &c.Processes.Interval, 2*time.Second)
	fix("report.interval", &c.Report.Interval, 5*time.Second)

	if c.CPU.Window >= c.CPU.Interval {
		log.Warn().Dur("window", c.CPU.Window).Dur("interval", c.CPU.Interval).Msg("cpu window not shorter than interval, using default window")
		c.CPU.Window = 100 * time.Millisecond
	}
	switch {
	case c.Processes.Limit <= 0:
		log.Warn().Int("limit", c.Processes.Limit).Msg("invalid process limit, using 30")
		c.Processes.Limit = 30
	case c.Processes.Limit > 30:
		log.Warn().Int("limit", c.Processes.Limit).Msg("process limit above 30, capping")
		c.Processes.Limit = 30
	}
}

func (c *Config) redacted() Config {
	r := *c
	if r.Report.APIKey != "" {
		r.Report.APIKey = "***"
	}
	return r
}
