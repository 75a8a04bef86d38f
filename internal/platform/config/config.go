package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is loaded once at process start and passed down explicitly. Nothing
// in this repository reads configuration from globals after startup.
type Config struct {
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	LogLevel    string `mapstructure:"log_level"`

	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Audit    AuditConfig    `mapstructure:"audit"`

	// Policies declares the statement registry: every policy the service
	// knows about, with its display URLs, default flag and notice text.
	Policies []PolicyConfig `mapstructure:"policies"`
}

// PostgresConfig captures the authoritative store connection.
type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig captures the shared cache backend. An empty URL selects the
// process-local memory cache instead.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuditConfig captures the Kafka audit sink. Empty brokers disable it.
type AuditConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// PolicyConfig declares one statement policy.
type PolicyConfig struct {
	Name           string   `mapstructure:"name"`
	DisplayURLs    []string `mapstructure:"display_urls"`
	DefaultEnabled bool     `mapstructure:"default_enabled"`
	Notice         string   `mapstructure:"notice"`
}

// Load reads configuration from an optional YAML file plus INTEGRITY_*
// environment variables. Env always wins so deployments stay file-free.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INTEGRITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log_level", "info")
	v.SetDefault("postgres.migrations_path", "migrations")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("audit.topic", "integrity.audit")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
