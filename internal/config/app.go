package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type HTTPServer struct {
	Port                   string `mapstructure:"port"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func (c HTTPClient) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ExchangeRateAPI struct {
	PrimaryURL  string `mapstructure:"primary_url"`
	FallbackURL string `mapstructure:"fallback_url"`
}

type Scheduler struct {
	JobDurationSec int `mapstructure:"job_duration_sec"`
}

type Storage struct {
	Driver          string `mapstructure:"driver"`
	CacheMaxItems   int64  `mapstructure:"cache_max_items"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Rates struct {
	DefaultBase string `mapstructure:"default_base"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	Redis           Redis           `mapstructure:"redis"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Storage         Storage         `mapstructure:"storage"`
	Logging         Logging         `mapstructure:"logging"`
	Rates           Rates           `mapstructure:"rates"`
}

// Init reads config.yaml and .env when present; every value has a default
// and can be overridden from the environment.
func Init() (*AppConfig, error) {
	return load(viper.New(), "config.yaml")
}

func load(v *viper.Viper, configFile string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	setDefaults(v)

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configFile); statErr == nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	bindEnv(v)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.shutdown_timeout_seconds", 10)
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key_prefix", "fxconv:")
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("exchange_rate_api.primary_url", "https://open.er-api.com/v6/latest")
	v.SetDefault("exchange_rate_api.fallback_url", "https://api.exchangerate-api.com/v4/latest")
	v.SetDefault("scheduler.job_duration_sec", 3600)
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.cache_max_items", 1024)
	v.SetDefault("storage.cache_ttl_seconds", 300)
	v.SetDefault("logging.level", "info")
	v.SetDefault("rates.default_base", "USD")
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// redis env vars
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("exchange_rate_api.primary_url", "RATES_PRIMARY_URL")
	_ = v.BindEnv("exchange_rate_api.fallback_url", "RATES_FALLBACK_URL")
	_ = v.BindEnv("scheduler.job_duration_sec", "SCHEDULER_JOB_DURATION_SEC")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("rates.default_base", "RATES_DEFAULT_BASE")
}
