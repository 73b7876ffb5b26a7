package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	DB           Database     `mapstructure:"database"`
	API          API          `mapstructure:"api"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	Ingestion    Ingestion    `mapstructure:"ingestion"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Cache        Cache        `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type API struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	RateExpiresIn  time.Duration `mapstructure:"rate_expires_in"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	CookieURL           string        `mapstructure:"cookie_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxRetries          int           `mapstructure:"max_retries"`
	RetryWait           time.Duration `mapstructure:"retry_wait"`
	HistoryRange        string        `mapstructure:"history_range"`
	CrumbTTL            time.Duration `mapstructure:"crumb_ttl"`
}

type Ingestion struct {
	MaxConcurrency int      `mapstructure:"max_concurrency"`
	PopularSymbols []string `mapstructure:"popular_symbols"`
}

type Scheduler struct {
	Enabled        bool   `mapstructure:"enabled"`
	Tick           string `mapstructure:"tick"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/stock_dashboard.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.log_level", "Warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("api.port", 8000)
	v.SetDefault("api.allowed_origins", []string{"*"})
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_burst", 30)
	v.SetDefault("api.rate_expires_in", 3*time.Minute)

	v.SetDefault("yahoo_finance.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("yahoo_finance.cookie_url", "https://fc.yahoo.com")
	v.SetDefault("yahoo_finance.timeout", 15*time.Second)
	v.SetDefault("yahoo_finance.max_request_per_minute", 60)
	v.SetDefault("yahoo_finance.max_retries", 3)
	v.SetDefault("yahoo_finance.retry_wait", 30*time.Second)
	v.SetDefault("yahoo_finance.history_range", "5y")
	v.SetDefault("yahoo_finance.crumb_ttl", 30*time.Minute)

	v.SetDefault("ingestion.max_concurrency", 2)
	v.SetDefault("ingestion.popular_symbols", []string{"SPY", "QQQ", "VOO", "VTI", "IVV", "IEMG", "VEA", "AGG", "VWO", "EFA"})

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.tick", "@every 1m")
	v.SetDefault("scheduler.max_concurrency", 2)

	v.SetDefault("cache.default_expiration", 30*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
