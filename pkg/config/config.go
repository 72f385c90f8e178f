package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full worker configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	MySQL   MySQLConfig    `mapstructure:"mysql"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Quality QualityConfig  `mapstructure:"quality"`
	Workers []WorkerConfig `mapstructure:"workers"`
}

// AppConfig identifies the deployment.
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// MySQLConfig holds the record store DSN.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig holds the pub/sub connection plus the completion channel name.
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	NotifyChannel string `mapstructure:"notify_channel"`
}

// LmstfyConfig holds the job queue connection.
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// QualityConfig exposes the evaluation policy tunables. Zero values fall back
// to the engine defaults (90/70 conclusion thresholds, five-whys depth 5).
type QualityConfig struct {
	ConformeThreshold int `mapstructure:"conforme_threshold"`
	ReserveThreshold  int `mapstructure:"reserve_threshold"`
	FiveWhysDepth     int `mapstructure:"five_whys_depth"`
}

// WorkerConfig tunes one queue worker.
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"`
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig tunes the pull side of a worker.
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`
	Rate         time.Duration `mapstructure:"rate"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TTR          time.Duration `mapstructure:"ttr"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
}

// ProcessorConfig tunes the processing side of a worker.
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`
	BufferSize int           `mapstructure:"buffer_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads a YAML config file.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks required fields and rejects inconsistent quality policy.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for _, w := range c.Workers {
		if w.QueueName == "" {
			return fmt.Errorf("worker %q: queue_name is required", w.Name)
		}
		if w.CallbackQueue == "" {
			return fmt.Errorf("worker %q: callback_queue is required", w.Name)
		}
	}

	q := c.Quality
	if q.ConformeThreshold < 0 || q.ConformeThreshold > 100 ||
		q.ReserveThreshold < 0 || q.ReserveThreshold > 100 {
		return fmt.Errorf("quality thresholds must be within [0, 100]")
	}
	if q.ConformeThreshold != 0 && q.ReserveThreshold != 0 && q.ReserveThreshold > q.ConformeThreshold {
		return fmt.Errorf("quality.reserve_threshold must not exceed quality.conforme_threshold")
	}
	if q.FiveWhysDepth < 0 {
		return fmt.Errorf("quality.five_whys_depth must not be negative")
	}
	return nil
}
