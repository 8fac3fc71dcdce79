// Package config provides configuration management for networkai.
package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is absent from the YAML file and the
// environment.
const (
	DefaultListen         = ":8088"
	DefaultLLMEndpoint    = "https://generativelanguage.googleapis.com"
	DefaultLLMModel       = "gemini-2.0-flash"
	DefaultLLMTimeoutSecs = 30
	DefaultCatalogPath    = "data/luma_events.csv"
	DefaultRecStorePath   = "data/recommendations.db"
	DefaultScoreFloor     = 0.75
	DefaultMaxKeywords    = 25
	DefaultMaxResults     = 10
)

// LLM holds text-generation service settings.
type LLM struct {
	Endpoint    string  `yaml:"endpoint"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_seconds"`
}

// Catalog holds local-event catalog settings.
type Catalog struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Scoring holds relevance-scoring policy knobs.
type Scoring struct {
	// Floor clamps relevance scores upward so surfaced events remain
	// visible in the UI. Zero disables the clamp.
	Floor      float64 `yaml:"floor"`
	MaxResults int     `yaml:"max_results"`
}

// Validation holds URL-validation policy knobs.
type Validation struct {
	// FailOpen treats network errors during HEAD checks as "reachable".
	FailOpen    bool `yaml:"fail_open"`
	TimeoutSecs int  `yaml:"timeout_seconds"`
}

// Config is the top-level configuration structure.
type Config struct {
	Listen          string     `yaml:"listen"`
	LLM             LLM        `yaml:"llm"`
	Catalog         Catalog    `yaml:"catalog"`
	Scoring         Scoring    `yaml:"scoring"`
	Validation      Validation `yaml:"validation"`
	RecommendPath   string     `yaml:"recommendations_path"`
	MaxKeywords     int        `yaml:"max_keywords"`
	DefaultLocation string     `yaml:"default_location"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		LLM: LLM{
			Endpoint:    DefaultLLMEndpoint,
			Model:       DefaultLLMModel,
			Temperature: 0.2,
			MaxTokens:   1024,
			TimeoutSecs: DefaultLLMTimeoutSecs,
		},
		Catalog: Catalog{
			Path:  DefaultCatalogPath,
			Watch: true,
		},
		Scoring: Scoring{
			Floor:      DefaultScoreFloor,
			MaxResults: DefaultMaxResults,
		},
		Validation: Validation{
			FailOpen:    true,
			TimeoutSecs: 5,
		},
		RecommendPath:   DefaultRecStorePath,
		MaxKeywords:     DefaultMaxKeywords,
		DefaultLocation: "sf",
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// returns the resulting Config. A missing file is not an error: defaults
// plus environment overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides config fields from NETWORKAI_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("NETWORKAI_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("NETWORKAI_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	// GEMINI_API_KEY is honored for compatibility with existing deployments.
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("NETWORKAI_LLM_ENDPOINT"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv("NETWORKAI_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("NETWORKAI_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("NETWORKAI_SCORE_FLOOR"); v != "" {
		floor, err := strconv.ParseFloat(v, 64)
		if err != nil || floor < 0 || floor > 1 {
			log.Warn().Str("env_value", v).Msg("Invalid score floor in environment, keeping configured value")
		} else {
			c.Scoring.Floor = floor
		}
	}
	if v := os.Getenv("NETWORKAI_FAIL_OPEN"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Str("env_value", v).Msg("Invalid fail-open flag in environment, keeping configured value")
		} else {
			c.Validation.FailOpen = open
		}
	}
}
