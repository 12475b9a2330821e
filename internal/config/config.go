package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Log       LogConfig       `toml:"log"`
	LLM       LLMConfig       `toml:"llm"`
	Assistant AssistantConfig `toml:"assistant"`
	Knowledge KnowledgeConfig `toml:"knowledge"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LLMConfig points at an OpenAI-compatible chat-completions endpoint. An empty
// API key disables the generative backend.
type LLMConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SystemPrompt   string `toml:"system_prompt"`
}

type AssistantConfig struct {
	HistoryLimit       int `toml:"history_limit"`
	QuotaMaxCalls      int `toml:"quota_max_calls"`
	QuotaWindowSeconds int `toml:"quota_window_seconds"`
	WorkerPoolSize     int `toml:"worker_pool_size"`
}

type KnowledgeConfig struct {
	StorePath       string `toml:"store_path"`
	DocumentsDir    string `toml:"documents_dir"`
	PDFEnabled      bool   `toml:"pdf_enabled"`
	PDFMaxBytes     int64  `toml:"pdf_max_bytes"`
	IngestWorkers   int    `toml:"ingest_workers"`
	Watch           bool   `toml:"watch"`
	WatchDebounceMS int    `toml:"watch_debounce_ms"`
}

type DatabaseConfig struct {
	Enabled  bool   `toml:"enabled"`
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
	Path     string `toml:"path"`
}

// RedisConfig selects the Redis conversation store when Addr is set.
type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	HistoryTTLSeconds int    `toml:"history_ttl_seconds"`
}

// RabbitMQConfig queues transcripts when URL is set; otherwise they are
// written to the database directly.
type RabbitMQConfig struct {
	URL             string `toml:"url"`
	TranscriptQueue string `toml:"transcript_queue"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// DatabaseDSN returns the DSN for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DB,
		c.Database.Params,
	)
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func (c *Config) QuotaWindow() time.Duration {
	return time.Duration(c.Assistant.QuotaWindowSeconds) * time.Second
}

func (c *Config) HistoryTTL() time.Duration {
	return time.Duration(c.Redis.HistoryTTLSeconds) * time.Second
}

func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Knowledge.WatchDebounceMS) * time.Millisecond
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "jce-assistant",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:          "gemini-2.0-flash",
			TimeoutSeconds: 60,
		},
		Assistant: AssistantConfig{
			HistoryLimit:       20,
			QuotaMaxCalls:      10,
			QuotaWindowSeconds: 60,
			WorkerPoolSize:     16,
		},
		Knowledge: KnowledgeConfig{
			StorePath:       "data/documentos_jce.json",
			DocumentsDir:    "documentos",
			PDFEnabled:      true,
			PDFMaxBytes:     32 << 20,
			IngestWorkers:   4,
			Watch:           true,
			WatchDebounceMS: 500,
		},
		Database: DatabaseConfig{
			Enabled: false,
			Driver:  "sqlite",
			Host:    "127.0.0.1",
			Port:    3306,
			User:    "root",
			DB:      "jce_assistant",
			Params:  "parseTime=true&loc=Local&charset=utf8mb4",
			Path:    "data/transcripts.db",
		},
		Redis: RedisConfig{
			HistoryTTLSeconds: 86400,
		},
		RabbitMQ: RabbitMQConfig{
			TranscriptQueue: "assistant.transcript.persist",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", getEnv("GEMINI_API_KEY", cfg.LLM.APIKey))
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.TimeoutSeconds = getEnvAsInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds)
	cfg.LLM.SystemPrompt = getEnv("LLM_SYSTEM_PROMPT", cfg.LLM.SystemPrompt)

	cfg.Assistant.HistoryLimit = getEnvAsInt("ASSISTANT_HISTORY_LIMIT", cfg.Assistant.HistoryLimit)
	cfg.Assistant.QuotaMaxCalls = getEnvAsInt("ASSISTANT_QUOTA_MAX_CALLS", cfg.Assistant.QuotaMaxCalls)
	cfg.Assistant.QuotaWindowSeconds = getEnvAsInt("ASSISTANT_QUOTA_WINDOW_SECONDS", cfg.Assistant.QuotaWindowSeconds)
	cfg.Assistant.WorkerPoolSize = getEnvAsInt("ASSISTANT_WORKER_POOL_SIZE", cfg.Assistant.WorkerPoolSize)

	cfg.Knowledge.StorePath = getEnv("KNOWLEDGE_STORE_PATH", cfg.Knowledge.StorePath)
	cfg.Knowledge.DocumentsDir = getEnv("KNOWLEDGE_DOCUMENTS_DIR", cfg.Knowledge.DocumentsDir)
	cfg.Knowledge.PDFEnabled = getEnvAsBool("KNOWLEDGE_PDF_ENABLED", cfg.Knowledge.PDFEnabled)
	cfg.Knowledge.IngestWorkers = getEnvAsInt("KNOWLEDGE_INGEST_WORKERS", cfg.Knowledge.IngestWorkers)
	cfg.Knowledge.Watch = getEnvAsBool("KNOWLEDGE_WATCH", cfg.Knowledge.Watch)
	cfg.Knowledge.WatchDebounceMS = getEnvAsInt("KNOWLEDGE_WATCH_DEBOUNCE_MS", cfg.Knowledge.WatchDebounceMS)

	cfg.Database.Enabled = getEnvAsBool("DATABASE_ENABLED", cfg.Database.Enabled)
	cfg.Database.Driver = getEnv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("MYSQL_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("MYSQL_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("MYSQL_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.Database.DB = getEnv("MYSQL_DB", cfg.Database.DB)
	cfg.Database.Params = getEnv("MYSQL_PARAMS", cfg.Database.Params)
	cfg.Database.Path = getEnv("SQLITE_PATH", cfg.Database.Path)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.HistoryTTLSeconds = getEnvAsInt("REDIS_HISTORY_TTL_SECONDS", cfg.Redis.HistoryTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.TranscriptQueue = getEnv("RABBITMQ_TRANSCRIPT_QUEUE", cfg.RabbitMQ.TranscriptQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return parsed
}
