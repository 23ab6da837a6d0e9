package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/pdf-qa/internal/chunk"
)

const (
	ProviderOff    = "off"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	AI       AIConfig       `mapstructure:"ai"`
	Chunk    ChunkConfig    `mapstructure:"chunk"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ChunkConfig struct {
	MaxTokens int `mapstructure:"max_tokens"`
	Overlap   int `mapstructure:"overlap"`
}

func (c ChunkConfig) Options() chunk.Options {
	return chunk.Options{MaxTokens: c.MaxTokens, Overlap: c.Overlap}
}

type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", ProviderOff)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("chunk.max_tokens", chunk.DefaultMaxTokens)
	v.SetDefault("chunk.overlap", chunk.DefaultOverlap)
	v.SetDefault("pipeline.workers", 1)
	v.SetDefault("retry.attempts", 0)
	v.SetDefault("retry.backoff", 500*time.Millisecond)
	v.SetDefault("server.addr", ":7866")
	v.SetDefault("server.max_upload_bytes", int64(100<<20))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// New returns a viper instance with defaults and PDFQA_ environment
// bindings, reading configPath when it is not empty. A .env file in the
// working directory is loaded first if present.
func New(configPath string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PDFQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals v and fills the API key from the provider's usual
// environment variable when none was configured.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case ProviderGemini:
			cfg.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
		case ProviderOpenAI:
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderOff, ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai provider %q (want off|gemini|openai)", c.AI.Provider)
	}
	if err := c.Chunk.Options().Validate(); err != nil {
		return err
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	if c.Retry.Attempts < 0 {
		return fmt.Errorf("retry attempts must not be negative, got %d", c.Retry.Attempts)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max upload bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}
