package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreDriverFile     = "file"
	StoreDriverBadger   = "badger"
	StoreDriverPostgres = "postgres"
)

// Defaults for the numeric settings. They must match the env-default tags
// below; invalid values fall back to them.
const (
	DefaultFallbackRate    = 5.5
	DefaultRequestTimeout  = 5
	DefaultIntervalMinutes = 5
)

// Environment names of the numeric settings. FALLBACK_USD_TO_BRL_RATE is the
// legacy name of FALLBACK_RATE.
var (
	fallbackRateEnvs    = []string{"FALLBACK_RATE", "FALLBACK_USD_TO_BRL_RATE"}
	requestTimeoutEnvs  = []string{"REQUEST_TIMEOUT"}
	intervalMinutesEnvs = []string{"SCHEDULE_MINUTES"}
)

type ETLConfig struct {
	Env           string `yaml:"env" env:"APP_ENV" env-default:"local"`
	PriceAPI      `yaml:"price_api"`
	RateAPI       `yaml:"rate_api"`
	HTTPClient    `yaml:"http_client"`
	Scheduler     `yaml:"scheduler"`
	Store         `yaml:"store"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka-service"`
	MetricsServer `yaml:"metrics_server"`
}

type PriceAPI struct {
	URL      string `yaml:"url" env:"API_URL" env-default:"https://api.coinbase.com/v2/prices/spot"`
	Currency string `yaml:"currency" env:"CURRENCY" env-default:"USD"`
}

type RateAPI struct {
	URL            string `yaml:"url" env:"EXCHANGE_RATE_API_URL" env-default:"https://api.exchangerate-api.com/v4/latest/USD"`
	TargetCurrency string `yaml:"target_currency" env:"TARGET_CURRENCY" env-default:"BRL"`
	// FallbackRate is read from the environment by applyNumericEnv.
	FallbackRate float64 `yaml:"fallback_rate" env-default:"5.5"`
}

type HTTPClient struct {
	// RequestTimeout is in seconds.
	RequestTimeout int `yaml:"request_timeout" env-default:"5"`
}

type Scheduler struct {
	IntervalMinutes int `yaml:"interval_minutes" env-default:"5"`
}

type Store struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"file"`
	Path   string `yaml:"path" env:"DB_PATH" env-default:"db.json"`
	Dsn    string `yaml:"dsn" env:"STORE_DSN"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"both"`
	LogFile   string `yaml:"log_file" env:"LOG_FILE" env-default:"logs/app.log"`
}

type KafkaService struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"price-events"`
}

type MetricsServer struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

func (c HTTPClient) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c Scheduler) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Load reads the YAML file named by CONFIG_PATH when set, otherwise the
// environment alone. Environment variables override file values. Numeric
// settings that do not parse or are out of range are logged to the default
// logger and replaced by their defaults.
func Load() (*ETLConfig, error) {
	return load(slog.Default())
}

func load(log *slog.Logger) (*ETLConfig, error) {
	var cfg ETLConfig

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.applyNumericEnv(log)
	cfg.normalizeNumeric(log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ETLConfig) applyNumericEnv(log *slog.Logger) {
	if name, raw, ok := lookupEnv(fallbackRateEnvs); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			warnDefault(log, name, raw, DefaultFallbackRate)
			v = DefaultFallbackRate
		}
		c.RateAPI.FallbackRate = v
	}
	if name, raw, ok := lookupEnv(requestTimeoutEnvs); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			warnDefault(log, name, raw, DefaultRequestTimeout)
			v = DefaultRequestTimeout
		}
		c.HTTPClient.RequestTimeout = v
	}
	if name, raw, ok := lookupEnv(intervalMinutesEnvs); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			warnDefault(log, name, raw, DefaultIntervalMinutes)
			v = DefaultIntervalMinutes
		}
		c.Scheduler.IntervalMinutes = v
	}
}

func (c *ETLConfig) normalizeNumeric(log *slog.Logger) {
	if rate := c.RateAPI.FallbackRate; math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		warnDefault(log, fallbackRateEnvs[0], rate, DefaultFallbackRate)
		c.RateAPI.FallbackRate = DefaultFallbackRate
	}
	if c.HTTPClient.RequestTimeout <= 0 {
		warnDefault(log, requestTimeoutEnvs[0], c.HTTPClient.RequestTimeout, DefaultRequestTimeout)
		c.HTTPClient.RequestTimeout = DefaultRequestTimeout
	}
	if c.Scheduler.IntervalMinutes <= 0 {
		warnDefault(log, intervalMinutesEnvs[0], c.Scheduler.IntervalMinutes, DefaultIntervalMinutes)
		c.Scheduler.IntervalMinutes = DefaultIntervalMinutes
	}
}

func lookupEnv(names []string) (name, value string, ok bool) {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			return name, value, true
		}
	}
	return "", "", false
}

func warnDefault(log *slog.Logger, name string, value, def any) {
	log.Warn("invalid config value, using default",
		"variable", name,
		"value", value,
		"default", def)
}

// Validate rejects configurations the service cannot run with. Numeric
// settings are expected to be normalized already.
func (c *ETLConfig) Validate() error {
	if c.PriceAPI.URL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	if c.RateAPI.URL == "" {
		return fmt.Errorf("EXCHANGE_RATE_API_URL must not be empty")
	}
	if c.RateAPI.TargetCurrency == "" {
		return fmt.Errorf("TARGET_CURRENCY must not be empty")
	}
	if rate := c.RateAPI.FallbackRate; math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("FALLBACK_RATE must be a finite non-negative number, got %v", rate)
	}
	if c.HTTPClient.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.HTTPClient.RequestTimeout)
	}
	if c.Scheduler.IntervalMinutes <= 0 {
		return fmt.Errorf("SCHEDULE_MINUTES must be positive, got %d", c.Scheduler.IntervalMinutes)
	}

	switch c.Store.Driver {
	case StoreDriverFile, StoreDriverBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("DB_PATH must not be empty for the %s store", c.Store.Driver)
		}
	case StoreDriverPostgres:
		if c.Store.Dsn == "" {
			return fmt.Errorf("STORE_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}
