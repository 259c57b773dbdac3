package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// browser origins the dashboard client is served from
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// sessions
	SessionTTL                  Duration `toml:"session_ttl"`
	SessionCleanupInterval      Duration `toml:"session_cleanup_interval"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	// countdown timer
	TimerDefaultMinutes int      `toml:"timer_default_minutes"`
	TimerMaxMinutes     int      `toml:"timer_max_minutes"`
	TimerTickInterval   Duration `toml:"timer_tick_interval"`
	// dashboard
	DashboardCacheSizeMB int `toml:"dashboard_cache_size_mb"`
}

// Duration lets TOML values like "24h" or "1s" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Environment, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SessionTTL.Duration == 0 {
		c.SessionTTL.Duration = 24 * 7 * time.Hour
	}
	if c.SessionCleanupInterval.Duration == 0 {
		c.SessionCleanupInterval.Duration = 8 * time.Hour
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.TimerDefaultMinutes == 0 {
		c.TimerDefaultMinutes = 25
	}
	if c.TimerMaxMinutes == 0 {
		c.TimerMaxMinutes = 120
	}
	if c.TimerTickInterval.Duration == 0 {
		c.TimerTickInterval.Duration = time.Second
	}
	if c.DashboardCacheSizeMB == 0 {
		c.DashboardCacheSizeMB = 1
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		return errors.New("redis host and port must be set")
	}
	if c.TimerDefaultMinutes < 0 || c.TimerMaxMinutes < 0 {
		return errors.New("timer minutes cannot be negative")
	}
	if c.TimerDefaultMinutes > c.TimerMaxMinutes {
		return fmt.Errorf("timer default of %d min is above the max of %d", c.TimerDefaultMinutes, c.TimerMaxMinutes)
	}
	if c.TimerTickInterval.Duration < 0 {
		return errors.New("timer tick interval cannot be negative")
	}
	return nil
}
