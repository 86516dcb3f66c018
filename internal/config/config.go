package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"slidegen/internal/domain"
)

// PipelineConfig holds the numeric knobs of the synthesis pipeline.
type PipelineConfig struct {
	MinClusterSize     int     `yaml:"min_cluster_size"`
	MaxTopics          int     `yaml:"max_topics"`
	MaxBulletsPerSlide int     `yaml:"max_bullets_per_slide"`
	DiversityThreshold float64 `yaml:"diversity_threshold"`
	MinSentenceWords   int     `yaml:"min_sentence_words"`
	MinSentenceChars   int     `yaml:"min_sentence_chars"`
	Clustering         string  `yaml:"clustering"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Pipeline  PipelineConfig `yaml:"pipeline"`
	Embedder  EmbedderConfig `yaml:"embedder"`
	Theme     string         `yaml:"theme"`
	OutputDir string         `yaml:"output_dir"`
	LogLevel  string         `yaml:"log_level"`
}

// Clone returns a deep copy so concurrent runs never observe another run's
// in-flight mutations.
func (c *AppConfig) Clone() *AppConfig {
	out := *c
	if c.Embedder.OpenAI != nil {
		oc := *c.Embedder.OpenAI
		out.Embedder.OpenAI = &oc
	}
	return &out
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/slidegen/config.yaml.
// If neither exists, it writes defaults to ~/.config/slidegen/config.yaml and returns them.
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

// Validate checks the documented bounds. Violations surface before any
// processing starts.
func (c *AppConfig) Validate() error {
	p := c.Pipeline
	if p.MinClusterSize < 2 {
		return fmt.Errorf("min_cluster_size must be >= 2, got %d: %w", p.MinClusterSize, domain.ErrInvalidConfig)
	}
	if p.MaxTopics < 1 {
		return fmt.Errorf("max_topics must be >= 1, got %d: %w", p.MaxTopics, domain.ErrInvalidConfig)
	}
	if p.MaxBulletsPerSlide < 1 {
		return fmt.Errorf("max_bullets_per_slide must be >= 1, got %d: %w", p.MaxBulletsPerSlide, domain.ErrInvalidConfig)
	}
	if p.DiversityThreshold < 0 || p.DiversityThreshold > 1 {
		return fmt.Errorf("diversity_threshold must be in [0,1], got %v: %w", p.DiversityThreshold, domain.ErrInvalidConfig)
	}
	if p.MinSentenceWords < 1 || p.MinSentenceChars < 1 {
		return fmt.Errorf("minimum sentence length must be >= 1: %w", domain.ErrInvalidConfig)
	}
	switch p.Clustering {
	case "density", "kmeans":
	default:
		return fmt.Errorf("clustering must be density or kmeans, got %q: %w", p.Clustering, domain.ErrInvalidConfig)
	}
	switch c.Embedder.Type {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("embedder type must be tfidf or openai, got %q: %w", c.Embedder.Type, domain.ErrInvalidConfig)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "slidegen", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Pipeline.MinClusterSize == 0 {
		cfg.Pipeline.MinClusterSize = 2
	}
	if cfg.Pipeline.MaxTopics == 0 {
		cfg.Pipeline.MaxTopics = 10
	}
	if cfg.Pipeline.MaxBulletsPerSlide == 0 {
		cfg.Pipeline.MaxBulletsPerSlide = 5
	}
	if cfg.Pipeline.DiversityThreshold == 0 {
		cfg.Pipeline.DiversityThreshold = 0.8
	}
	if cfg.Pipeline.MinSentenceWords == 0 {
		cfg.Pipeline.MinSentenceWords = 3
	}
	if cfg.Pipeline.MinSentenceChars == 0 {
		cfg.Pipeline.MinSentenceChars = 12
	}
	if cfg.Pipeline.Clustering == "" {
		cfg.Pipeline.Clustering = "density"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
