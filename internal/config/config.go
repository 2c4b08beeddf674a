package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置校验错误
var (
	ErrInvalidFormat      = errors.New("storage.format 只支持 json 或 csv")
	ErrInvalidConcurrency = errors.New("fetch.concurrency 必须大于 0")
	ErrInvalidAttempts    = errors.New("重试次数必须大于 0")
)

// Config 在启动时构造一次，显式传入各组件的构造函数，
// 不做进程级全局状态。
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Feishu   WebhookConfig  `yaml:"feishu"`
	DingTalk WebhookConfig  `yaml:"dingtalk"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Render   RenderConfig   `yaml:"render"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig 文件快照与数据库两种持久化各自独立开关
type StorageConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"`
	OutputDir  string `yaml:"output_dir"`
	ToDatabase bool   `yaml:"to_database"`
}

type WebhookConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Secret     string `yaml:"secret"`
}

type FetchConfig struct {
	TimeoutSec   int `yaml:"timeout_sec"`
	Concurrency  int `yaml:"concurrency"`
	GetAttempts  int `yaml:"get_attempts"`
	PostAttempts int `yaml:"post_attempts"`
	RetryDelayMS int `yaml:"retry_delay_ms"`
}

func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

func (f FetchConfig) RetryDelay() time.Duration {
	return time.Duration(f.RetryDelayMS) * time.Millisecond
}

type RenderConfig struct {
	Enabled    bool `yaml:"enabled"`
	TimeoutSec int  `yaml:"timeout_sec"`
}

func (r RenderConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSec) * time.Second
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Postgres.DSN = "host=localhost user=newsharvest password=newsharvest dbname=newsharvest port=5432 sslmode=disable TimeZone=UTC"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Storage.Format = "json"
	cfg.Storage.OutputDir = "data"
	cfg.Fetch.TimeoutSec = 10
	cfg.Fetch.Concurrency = 10
	cfg.Fetch.GetAttempts = 1
	cfg.Fetch.PostAttempts = 3
	cfg.Fetch.RetryDelayMS = 1000
	cfg.Render.TimeoutSec = 30
	return cfg
}

// Load 读取配置：优先 config_dev.yaml，其次 config.yaml，
// 都不存在时用默认值；环境变量可覆盖关键字段。
func Load() (*Config, error) {
	cfg := defaults()

	for _, path := range []string{"config_dev.yaml", "config.yaml"} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
		log.Printf("config loaded from %s", path)
		break
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Postgres.DSN = getEnv("POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Storage.OutputDir = getEnv("OUTPUT_DIR", cfg.Storage.OutputDir)
	cfg.Feishu.WebhookURL = getEnv("FEISHU_WEBHOOK_URL", cfg.Feishu.WebhookURL)
	cfg.Feishu.Secret = getEnv("FEISHU_SECRET", cfg.Feishu.Secret)
	cfg.DingTalk.WebhookURL = getEnv("DINGTALK_WEBHOOK_URL", cfg.DingTalk.WebhookURL)
	cfg.DingTalk.Secret = getEnv("DINGTALK_SECRET", cfg.DingTalk.Secret)
}

func (c *Config) Validate() error {
	if c.Storage.Format != "json" && c.Storage.Format != "csv" {
		return ErrInvalidFormat
	}
	if c.Fetch.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Fetch.GetAttempts <= 0 || c.Fetch.PostAttempts <= 0 {
		return ErrInvalidAttempts
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
