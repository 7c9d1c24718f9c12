package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DocumentsConfig locates the folder of searchable documents.
type DocumentsConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// OpenAICompletionConfig holds configuration for the OpenAI-compatible chat client.
type OpenAICompletionConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
}

// CompletionConfig selects the service that answers unmatched queries.
type CompletionConfig struct {
	Type         string                  `yaml:"type"`
	SystemPrompt string                  `yaml:"system_prompt"`
	OpenAI       *OpenAICompletionConfig `yaml:"openai,omitempty"`
}

// RedisConfig contains connection details for the Redis answer cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// CacheConfig selects the completion answer cache.
type CacheConfig struct {
	Type  string       `yaml:"type"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Documents  DocumentsConfig  `yaml:"documents"`
	Completion CompletionConfig `yaml:"completion"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			applyConfigDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docsearch/config.yaml.
// If neither exists, it writes defaults to ~/.config/docsearch/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docsearch", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Documents: DocumentsConfig{Dir: "./documents", Extension: ".txt"},
		Completion: CompletionConfig{
			Type:         "openai",
			SystemPrompt: "Answer the question in a short plain-text paragraph.",
			OpenAI: &OpenAICompletionConfig{
				BaseURL:     "https://api.openai.com/v1",
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "gpt-4o-mini",
				MaxTokens:   512,
				TimeoutSecs: 60,
				MaxRetries:  3,
			},
		},
		Cache:   CacheConfig{Type: "none"},
		Logging: LoggingConfig{Level: "info", Format: "text", File: "docsearch.log"},
		Metrics: MetricsConfig{Enabled: false, Addr: "127.0.0.1:9464"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Documents.Dir == "" {
		cfg.Documents.Dir = "./documents"
	}
	if cfg.Documents.Extension == "" {
		cfg.Documents.Extension = ".txt"
	}
	if cfg.Completion.Type == "openai" {
		if cfg.Completion.OpenAI == nil {
			cfg.Completion.OpenAI = &OpenAICompletionConfig{}
		}
		o := cfg.Completion.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "gpt-4o-mini"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 60
		}
	}
	if cfg.Cache.Type == "redis" {
		if cfg.Cache.Redis == nil {
			cfg.Cache.Redis = &RedisConfig{}
		}
		if cfg.Cache.Redis.Addr == "" {
			cfg.Cache.Redis.Addr = "localhost:6379"
		}
		if cfg.Cache.Redis.TTLSecs == 0 {
			cfg.Cache.Redis.TTLSecs = 24 * 60 * 60
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "127.0.0.1:9464"
	}
}

// applyEnvOverrides reads DOCSEARCH_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DOCSEARCH_DOCUMENTS_DIR"); v != "" {
		cfg.Documents.Dir = v
	}
	if v := os.Getenv("DOCSEARCH_COMPLETION_TYPE"); v != "" {
		cfg.Completion.Type = v
	}
	if v := os.Getenv("DOCSEARCH_OPENAI_BASE_URL"); v != "" {
		openAI(cfg).BaseURL = v
	}
	if v := os.Getenv("DOCSEARCH_OPENAI_MODEL"); v != "" {
		openAI(cfg).Model = v
	}
	if v := os.Getenv("DOCSEARCH_CACHE_TYPE"); v != "" {
		cfg.Cache.Type = v
	}
	if v := os.Getenv("DOCSEARCH_REDIS_ADDR"); v != "" {
		if cfg.Cache.Redis == nil {
			cfg.Cache.Redis = &RedisConfig{}
		}
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("DOCSEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCSEARCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DOCSEARCH_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("DOCSEARCH_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("DOCSEARCH_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

func openAI(cfg *AppConfig) *OpenAICompletionConfig {
	if cfg.Completion.OpenAI == nil {
		cfg.Completion.OpenAI = &OpenAICompletionConfig{}
	}
	return cfg.Completion.OpenAI
}
