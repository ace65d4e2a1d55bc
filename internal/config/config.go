package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	WebOrigin   string           `json:"web_origin"`
	Locale      string           `json:"locale"`
	SubjectName string           `json:"subject_name"`
	LogConfig   logger.LogConfig `json:"log_config"`
	APIKey      KeySourceConfig  `json:"api_key_source"`
	AI          AIConfig         `json:"ai"`
	Corpus      CorpusConfig     `json:"corpus"`
	Index       IndexConfig      `json:"index"`
	Retriever   RetrieverConfig  `json:"retriever"`
	Cache       CacheConfig      `json:"cache"`
	Database    DatabaseConfig   `json:"database"`
	WarmupSpec  string           `json:"warmup_spec"`
}

type KeySourceConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider    string  `json:"provider"`
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	EmbedModel  string  `json:"embed_model"`
	Temperature float64 `json:"temperature"`
}

type CorpusConfig struct {
	Path      string `json:"path"`
	Dimension int    `json:"dimension"`
}

type IndexConfig struct {
	Type string `json:"type"`
}

type RetrieverConfig struct {
	Type string `json:"type"`
	TopK int    `json:"top_k"`
}

type CacheConfig struct {
	Type     string `json:"type"`
	Size     int    `json:"size"`
	SkipRead bool   `json:"skip_read"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.SubjectName == "" {
		return fmt.Errorf("subject_name is required")
	}
	if cfg.Corpus.Path == "" {
		return fmt.Errorf("corpus.path is required")
	}
	if cfg.Corpus.Dimension == 0 {
		cfg.Corpus.Dimension = 1536
	}
	if cfg.WebOrigin == "" {
		cfg.WebOrigin = "*"
	}
	if cfg.Locale == "" {
		cfg.Locale = "ko"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.APIKey.Type == "" {
		cfg.APIKey.Type = "env"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-ada-002"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.7
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "memory"
	}
	if cfg.Retriever.Type == "" {
		cfg.Retriever.Type = "similarity"
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 3
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 10000
	}
	if cfg.WarmupSpec == "" {
		cfg.WarmupSpec = "* * * * *"
	}
	switch cfg.Index.Type {
	case "memory":
	case "pgvector":
		if err := cfg.Database.validate(); err != nil {
			return fmt.Errorf("index.type=pgvector: %w", err)
		}
	default:
		return fmt.Errorf("index.type must be memory or pgvector")
	}
	switch cfg.Retriever.Type {
	case "similarity", "self_query":
	default:
		return fmt.Errorf("retriever.type must be similarity or self_query")
	}
	switch cfg.Cache.Type {
	case "memory", "none":
	case "postgres":
		if err := cfg.Database.validate(); err != nil {
			return fmt.Errorf("cache.type=postgres: %w", err)
		}
	default:
		return fmt.Errorf("cache.type must be memory, postgres or none")
	}
	return nil
}

func (d DatabaseConfig) validate() error {
	if d.DSN == "" && (d.Host == "" || d.DBName == "" || d.User == "") {
		return fmt.Errorf("database dsn or host/user/db_name are required")
	}
	return nil
}

// NeedsDatabase reports whether any configured backend is Postgres-backed.
func (cfg *Config) NeedsDatabase() bool {
	return cfg.Index.Type == "pgvector" || cfg.Cache.Type == "postgres"
}
