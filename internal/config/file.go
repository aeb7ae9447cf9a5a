package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the on-disk schema, grouped into the same nested sections
// the teacher's config_file.go uses so the mapping to flags/env stays
// readable.
type FileConfig struct {
	Rate struct {
		Capacity      int     `yaml:"capacity" json:"capacity"`
		RefillPerSec  float64 `yaml:"refill_per_sec" json:"refill_per_sec"`
	} `yaml:"rate" json:"rate"`

	Pool struct {
		Workers int `yaml:"workers" json:"workers"`
	} `yaml:"pool" json:"pool"`

	Timeout struct {
		Default       time.Duration `yaml:"default" json:"default"`
		Simple        time.Duration `yaml:"simple" json:"simple"`
		Complex       time.Duration `yaml:"complex" json:"complex"`
		Max           time.Duration `yaml:"max" json:"max"`
		IncreaseFactor float64      `yaml:"increase_factor" json:"increase_factor"`
	} `yaml:"timeout" json:"timeout"`

	Retry struct {
		MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
		BaseBackoff time.Duration `yaml:"base_backoff" json:"base_backoff"`
		MaxBackoff  time.Duration `yaml:"max_backoff" json:"max_backoff"`
		Jitter      float64       `yaml:"jitter" json:"jitter"`
	} `yaml:"retry" json:"retry"`

	Extract struct {
		MaxConcurrent         int `yaml:"max_concurrent" json:"max_concurrent"`
		PrimaryThresholdChars int `yaml:"primary_threshold_chars" json:"primary_threshold_chars"`
		PromptBudgetChars     int `yaml:"prompt_budget_chars" json:"prompt_budget_chars"`
	} `yaml:"extract" json:"extract"`

	Discovery struct {
		MaxURLs        int `yaml:"max_urls" json:"max_urls"`
		RecursionDepth int `yaml:"recursion_depth" json:"recursion_depth"`
	} `yaml:"discovery" json:"discovery"`

	Embedding struct {
		Dimension int    `yaml:"dimension" json:"dimension"`
		Model     string `yaml:"model" json:"model"`
	} `yaml:"embedding" json:"embedding"`

	LLM struct {
		Provider string `yaml:"provider" json:"provider"`
		BaseURL  string `yaml:"base_url" json:"base_url"`
		Model    string `yaml:"model" json:"model"`
		APIKey   string `yaml:"api_key" json:"api_key"`
	} `yaml:"llm" json:"llm"`

	Bedrock struct {
		Region string `yaml:"region" json:"region"`
	} `yaml:"bedrock" json:"bedrock"`

	Gemini struct {
		APIKey string `yaml:"api_key" json:"api_key"`
	} `yaml:"gemini" json:"gemini"`

	VectorStore struct {
		Kind       string `yaml:"kind" json:"kind"`
		QdrantURL  string `yaml:"qdrant_url" json:"qdrant_url"`
		QdrantKey  string `yaml:"qdrant_api_key" json:"qdrant_api_key"`
		Collection string `yaml:"collection" json:"collection"`
	} `yaml:"vector_store" json:"vector_store"`

	InsecureTLSHosts []string      `yaml:"insecure_tls_hosts" json:"insecure_tls_hosts"`
	OverallDeadline  time.Duration `yaml:"overall_deadline" json:"overall_deadline"`
	CacheDir         string        `yaml:"cache_dir" json:"cache_dir"`
	Verbose          bool          `yaml:"verbose" json:"verbose"`
}

// LoadFile reads and parses a YAML config file. JSON is a valid subset of
// YAML so this also accepts JSON config files, matching the teacher's
// single-loader-for-both-formats approach.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFile merges fc into cfg, only filling fields cfg has not already set
// (so flags/env applied earlier still win).
func ApplyFile(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.RateCapacity == 0 {
		cfg.RateCapacity = fc.Rate.Capacity
	}
	if cfg.RateRefillPerSec == 0 {
		cfg.RateRefillPerSec = fc.Rate.RefillPerSec
	}
	if cfg.PoolWorkers == 0 {
		cfg.PoolWorkers = fc.Pool.Workers
	}
	if cfg.TimeoutDefault == 0 {
		cfg.TimeoutDefault = fc.Timeout.Default
	}
	if cfg.TimeoutSimple == 0 {
		cfg.TimeoutSimple = fc.Timeout.Simple
	}
	if cfg.TimeoutComplex == 0 {
		cfg.TimeoutComplex = fc.Timeout.Complex
	}
	if cfg.TimeoutMax == 0 {
		cfg.TimeoutMax = fc.Timeout.Max
	}
	if cfg.TimeoutIncreaseFactor == 0 {
		cfg.TimeoutIncreaseFactor = fc.Timeout.IncreaseFactor
	}
	if cfg.RetryMaxAttempts == 0 {
		cfg.RetryMaxAttempts = fc.Retry.MaxAttempts
	}
	if cfg.RetryBaseBackoff == 0 {
		cfg.RetryBaseBackoff = fc.Retry.BaseBackoff
	}
	if cfg.RetryMaxBackoff == 0 {
		cfg.RetryMaxBackoff = fc.Retry.MaxBackoff
	}
	if cfg.RetryJitter == 0 {
		cfg.RetryJitter = fc.Retry.Jitter
	}
	if cfg.ExtractMaxConcurrent == 0 {
		cfg.ExtractMaxConcurrent = fc.Extract.MaxConcurrent
	}
	if cfg.ExtractPrimaryThresholdChars == 0 {
		cfg.ExtractPrimaryThresholdChars = fc.Extract.PrimaryThresholdChars
	}
	if cfg.ExtractPromptBudgetChars == 0 {
		cfg.ExtractPromptBudgetChars = fc.Extract.PromptBudgetChars
	}
	if cfg.DiscoveryMaxURLs == 0 {
		cfg.DiscoveryMaxURLs = fc.Discovery.MaxURLs
	}
	if cfg.DiscoveryRecursionDepth == 0 {
		cfg.DiscoveryRecursionDepth = fc.Discovery.RecursionDepth
	}
	if cfg.EmbeddingDimension == 0 {
		cfg.EmbeddingDimension = fc.Embedding.Dimension
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = fc.Embedding.Model
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = fc.LLM.Provider
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.BedrockRegion == "" {
		cfg.BedrockRegion = fc.Bedrock.Region
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = fc.Gemini.APIKey
	}
	if cfg.VectorStoreKind == "" {
		cfg.VectorStoreKind = fc.VectorStore.Kind
	}
	if cfg.QdrantURL == "" {
		cfg.QdrantURL = fc.VectorStore.QdrantURL
	}
	if cfg.QdrantAPIKey == "" {
		cfg.QdrantAPIKey = fc.VectorStore.QdrantKey
	}
	if cfg.QdrantCollection == "" {
		cfg.QdrantCollection = fc.VectorStore.Collection
	}
	if len(cfg.InsecureTLSHosts) == 0 {
		cfg.InsecureTLSHosts = fc.InsecureTLSHosts
	}
	if cfg.OverallDeadline == 0 {
		cfg.OverallDeadline = fc.OverallDeadline
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.CacheDir
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
}

// normalizeTLSHosts lower-cases and trims a host list and drops empty
// entries.
func normalizeTLSHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
