package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Dictionary  DictionaryConfig  `mapstructure:"dictionary"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Translation TranslationConfig `mapstructure:"translation"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Correction  CorrectionConfig  `mapstructure:"correction"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

type DictionaryConfig struct {
	Directory       string          `mapstructure:"directory" validate:"required,dir"`
	SourceDirectory string          `mapstructure:"source_directory" validate:"required"`
	Variants        []VariantConfig `mapstructure:"variants" validate:"required,min=1,dive"`
}

type VariantConfig struct {
	Tag       string `mapstructure:"tag" validate:"required,bcp47_language_tag"`
	Directory string `mapstructure:"directory" validate:"required"`
}

type CacheConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type TranslationConfig struct {
	TargetLanguage string `mapstructure:"target_language" validate:"required,bcp47_language_tag"`
	Engine         string `mapstructure:"engine" validate:"required"`
	Fix            bool   `mapstructure:"fix"`
	Skip           bool   `mapstructure:"skip"`
}

type QueueConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=0"`
	FailureText  string        `mapstructure:"failure_text"`
}

type CorrectionConfig struct {
	NPCChannels       []string `mapstructure:"npc_channels" validate:"dive,len=4,hexadecimal"`
	SpecialRulesFile  string   `mapstructure:"special_rules_file" validate:"omitempty,file"`
	KatakanaThreshold int      `mapstructure:"katakana_threshold" validate:"gt=0"`
}

type OpenAIConfig struct {
	APIKey           string `mapstructure:"api_key"`
	Model            string `mapstructure:"model"`
	BaseURL          string `mapstructure:"base_url" validate:"omitempty,url"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
}

type BreakerConfig struct {
	MaxFailures  uint32        `mapstructure:"max_failures" validate:"gt=0"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Port    int        `mapstructure:"port" validate:"gt=0,lte=65535"`
	Metrics bool       `mapstructure:"metrics"`
	CORS    CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dialogfix")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	cacheDirectory := "temp"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDirectory = filepath.Join(home, ".config", "dialogfix", "temp")
	}

	v.SetDefault("dictionary.directory", "text")
	v.SetDefault("dictionary.source_directory", "jp")
	v.SetDefault("dictionary.variants", []map[string]any{
		{"tag": "zh-Hant", "directory": "cht"},
		{"tag": "zh-Hans", "directory": "chs"},
	})
	v.SetDefault("cache.directory", cacheDirectory)
	v.SetDefault("translation.target_language", "zh-Hant")
	v.SetDefault("translation.engine", "openai")
	v.SetDefault("translation.fix", true)
	v.SetDefault("translation.skip", true)
	v.SetDefault("queue.tick_interval", time.Second)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.failure_text", "翻譯失敗，請稍後再試")
	v.SetDefault("correction.npc_channels", []string{"003D", "0044", "2AB9"})
	v.SetDefault("correction.special_rules_file", "")
	v.SetDefault("correction.katakana_threshold", 10)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.max_retry_attempts", 2)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.reset_timeout", 30*time.Second)
	v.SetDefault("server.port", 8898)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")

	// Bind OpenAI config to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
