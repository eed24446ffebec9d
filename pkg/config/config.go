package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for generated RSS links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Cache struct {
		File            string        `yaml:"file" json:"file" jsonschema:"default=data/article_cache.json,description=Path to the article cache file"`
		RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval" jsonschema:"default=15m,description=Interval between pipeline runs"`
	} `yaml:"cache" json:"cache" jsonschema:"description=Article cache configuration"`

	Sources struct {
		FeedsFile   string `yaml:"feeds_file" json:"feeds_file" jsonschema:"default=data/feeds.txt,description=Path to the feed URL list"`
		RemovedFile string `yaml:"removed_file" json:"removed_file" jsonschema:"default=data/removed_articles.txt,description=Path to the removed article link list"`
	} `yaml:"sources" json:"sources" jsonschema:"description=Operator-editable source lists"`

	Fetcher struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per-feed fetch timeout"`
		UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=BrightSide/1.0,description=User agent for feed requests"`
	} `yaml:"fetcher" json:"fetcher" jsonschema:"description=Feed fetcher configuration"`

	Filter struct {
		PositiveThreshold float64 `yaml:"positive_threshold" json:"positive_threshold" jsonschema:"default=0.5,minimum=-1,maximum=1,description=Minimum compound sentiment for admission"`
	} `yaml:"filter" json:"filter" jsonschema:"description=Admissibility filter configuration"`

	Icons struct {
		DatasetFile string `yaml:"dataset_file" json:"dataset_file" jsonschema:"description=Local icon annotation dataset path"`
		DatasetURL  string `yaml:"dataset_url" json:"dataset_url" jsonschema:"description=Remote dataset URL used when the local file is missing"`
	} `yaml:"icons" json:"icons" jsonschema:"description=Icon dataset configuration"`

	Images struct {
		PlaceholderDir string `yaml:"placeholder_dir" json:"placeholder_dir" jsonschema:"description=Directory of topic-named placeholder images"`
		FaviconService string `yaml:"favicon_service" json:"favicon_service" jsonschema:"description=Favicon service URL template with a %s domain placeholder"`
	} `yaml:"images" json:"images" jsonschema:"description=Image resolver configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=Optional LLM inspiration scorer"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable summary backfill via content extraction"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent        string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=BrightSide/1.0,description=User agent for extraction requests"`
	MinSummaryLength int           `yaml:"min_summary_length" json:"min_summary_length" jsonschema:"default=80,description=Summaries shorter than this trigger extraction"`
}

// LLMConfig holds configuration for the optional LLM inspiration scorer
type LLMConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Use the LLM scorer instead of the heuristic"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=200,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns a config with all defaults applied, used when no config
// file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Cache.File == "" {
		c.Cache.File = "data/article_cache.json"
	}
	if c.Cache.RefreshInterval == 0 {
		c.Cache.RefreshInterval = 15 * time.Minute
	}

	if c.Sources.FeedsFile == "" {
		c.Sources.FeedsFile = "data/feeds.txt"
	}
	if c.Sources.RemovedFile == "" {
		c.Sources.RemovedFile = "data/removed_articles.txt"
	}

	if c.Fetcher.Timeout == 0 {
		c.Fetcher.Timeout = 30 * time.Second
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = "BrightSide/1.0"
	}

	if c.Filter.PositiveThreshold == 0 {
		c.Filter.PositiveThreshold = 0.5
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "BrightSide/1.0"
	}
	if c.Extraction.MinSummaryLength == 0 {
		c.Extraction.MinSummaryLength = 80
	}

	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 200
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Filter.PositiveThreshold < -1 || cfg.Filter.PositiveThreshold > 1 {
		return fmt.Errorf("filter.positive_threshold must be between -1 and 1")
	}

	if cfg.Cache.RefreshInterval < time.Minute {
		return fmt.Errorf("cache.refresh_interval must be at least 1 minute")
	}

	if cfg.Fetcher.Timeout < time.Second {
		return fmt.Errorf("fetcher.timeout must be at least 1 second")
	}

	if cfg.LLM.Enabled {
		if cfg.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required when llm is enabled")
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("llm.model is required when llm is enabled")
		}
		if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be between 0 and 2")
		}
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinSummaryLength < 0 {
			return fmt.Errorf("extraction min_summary_length must be non-negative")
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetExtractionConfig returns content extraction configuration
func (c *Config) GetExtractionConfig() ExtractionConfig {
	return c.Extraction
}
